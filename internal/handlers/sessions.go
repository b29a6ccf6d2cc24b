package handlers

import (
	"net/http"
	"strings"
	"time"

	"compressor_runtime/internal/models"
	"compressor_runtime/internal/service"

	"github.com/gin-gonic/gin"
)

// StartSessionRequest is the payload of POST /sessions/start.
type StartSessionRequest struct {
	Operator string           `json:"operator" example:"ana"`
	PreCheck *models.PreCheck `json:"pre_check,omitempty"`
}

// StopSessionRequest is the optional payload of POST /sessions/:id/stop.
type StopSessionRequest struct {
	// Defaults to the current time when omitted
	EndTime *time.Time `json:"end_time,omitempty" example:"2025-03-01T10:30:00Z"`
}

// EmergencyStopRequest is the payload of POST /sessions/:id/emergency-stop.
type EmergencyStopRequest struct {
	Reason string `json:"reason" example:"pressure relief valve open"`
}

// @Summary      Start a run session
// @Description  Fails with 409 while another session is RUNNING
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      StartSessionRequest  true  "Operator and optional pre-run check"
// @Success      201   {object}  models.RunSession
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/sessions/start [post]
// @Security     BearerAuth
func (h *Handler) startSession(c *gin.Context) {
	var req StartSessionRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	s, err := h.services.Runtime.StartSession(c.Request.Context(), service.StartParams{
		Operator: req.Operator,
		PreCheck: req.PreCheck,
	})
	if err != nil {
		h.respondServiceError(c, "session_start_failed", err, "operator", req.Operator)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// @Summary      Stop a run session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path      string              true   "Session id"
// @Param        body  body      StopSessionRequest  false  "Optional end time"
// @Success      200   {object}  models.RunSession
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/stop [post]
// @Security     BearerAuth
func (h *Handler) stopSession(c *gin.Context) {
	var req StopSessionRequest
	if hasBody(c) && !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id := c.Param("id")
	s, err := h.services.Runtime.StopSession(c.Request.Context(), id, req.EndTime)
	if err != nil {
		h.respondServiceError(c, "session_stop_failed", err, "session_id", id)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Emergency stop
// @Description  Terminates the session and appends the reason to its notes
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Session id"
// @Param        body  body      EmergencyStopRequest  true  "Reason"
// @Success      200   {object}  models.RunSession
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/sessions/{id}/emergency-stop [post]
// @Security     BearerAuth
func (h *Handler) emergencyStop(c *gin.Context) {
	var req EmergencyStopRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	id := c.Param("id")
	s, err := h.services.Runtime.EmergencyStop(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondServiceError(c, "session_emergency_stop_failed", err, "session_id", id)
		return
	}
	h.log.Warnw("emergency_stop", "session_id", s.ID, "reason", req.Reason)
	c.JSON(http.StatusOK, s)
}

// @Summary      Active session
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "active (null when idle)"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/sessions/active [get]
// @Security     BearerAuth
func (h *Handler) getActiveSession(c *gin.Context) {
	s, err := h.services.Runtime.ActiveSession(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "session_active_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": s})
}

// @Summary      List sessions
// @Tags         sessions
// @Produce      json
// @Param        from    query     string  false  "Start time lower bound (RFC3339 or YYYY-MM-DD)"
// @Param        to      query     string  false  "Start time upper bound; date-only means end of day"
// @Param        status  query     string  false  "Session status"  Enums(RUNNING,STOPPED,EMERGENCY_STOPPED)
// @Success      200     {object}  map[string]interface{}  "count, sessions"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/v1/sessions [get]
// @Security     BearerAuth
func (h *Handler) listSessions(c *gin.Context) {
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	list, err := h.services.Runtime.ListSessions(c.Request.Context(), service.SessionFilter{
		From:   from,
		To:     to,
		Status: status,
	})
	if err != nil {
		h.respondServiceError(c, "session_list_failed", err, "status", status)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(list),
		"sessions": list,
	})
}
