package handlers

import (
	"net/http"

	"compressor_runtime/internal/service"

	"github.com/gin-gonic/gin"
)

// ResetIntervalRequest is the payload of POST /maintenance/interval/reset.
type ResetIntervalRequest struct {
	Name                string  `json:"name" example:"500h service"`
	Reason              string  `json:"reason,omitempty" example:"scheduled service done"`
	IntervalLengthHours float64 `json:"interval_length_hours" example:"500"`
	Operator            string  `json:"operator" example:"ana"`
}

// @Summary      Maintenance interval status
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  compressor_runtime.IntervalStatus
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/maintenance/interval [get]
// @Security     BearerAuth
func (h *Handler) getIntervalStatus(c *gin.Context) {
	st, err := h.services.Maintenance.Status(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "interval_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Maintenance interval history
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, intervals"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/maintenance/interval/history [get]
// @Security     BearerAuth
func (h *Handler) getIntervalHistory(c *gin.Context) {
	list, err := h.services.Maintenance.History(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "interval_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(list),
		"intervals": list,
	})
}

// @Summary      Reset maintenance interval
// @Description  Starts a new interval anchored at the current ledger total
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        body  body      ResetIntervalRequest  true  "New interval"
// @Success      201   {object}  models.MaintenanceInterval
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/maintenance/interval/reset [post]
// @Security     BearerAuth
func (h *Handler) resetInterval(c *gin.Context) {
	var req ResetIntervalRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	mi, err := h.services.Maintenance.ResetInterval(c.Request.Context(), service.ResetParams{
		Name:                req.Name,
		Reason:              req.Reason,
		IntervalLengthHours: req.IntervalLengthHours,
		Operator:            req.Operator,
	})
	if err != nil {
		h.respondServiceError(c, "interval_reset_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, mi)
}
