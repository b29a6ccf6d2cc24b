package handlers

import (
	"net/http"

	cr "compressor_runtime"
	"compressor_runtime/internal/service"

	"github.com/gin-gonic/gin"
)

const errSinceInvalid = "invalid 'since' time; use RFC3339 or YYYY-MM-DD"

// CorrectionRequest is the payload of POST /ledger/corrections.
type CorrectionRequest struct {
	Password         string  `json:"password"`
	TargetTotalHours float64 `json:"target_total_hours" example:"1234.5"`
	Reason           string  `json:"reason" example:"hour meter replaced"`
}

// @Summary      Ledger total
// @Description  Cumulative operating hours; with since, only sessions started and corrections made at or after it.
// @Description  Each correction delta was computed against the all-time total, so a since total that includes a large downward correction can be negative.
// @Tags         ledger
// @Produce      json
// @Param        since  query     string  false  "Lower bound (RFC3339 or YYYY-MM-DD)"
// @Success      200    {object}  compressor_runtime.LedgerTotal
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      503    {object}  map[string]string
// @Router       /api/v1/ledger [get]
// @Security     BearerAuth
func (h *Handler) getLedgerTotal(c *gin.Context) {
	ctx := c.Request.Context()
	qs := c.Query("since")
	if qs == "" {
		total, err := h.services.Ledger.Total(ctx)
		if err != nil {
			h.respondServiceError(c, "ledger_total_failed", err)
			return
		}
		c.JSON(http.StatusOK, cr.LedgerTotal{Hours: total})
		return
	}

	since, err := parseQueryTime(qs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSinceInvalid})
		return
	}
	total, err := h.services.Ledger.TotalSince(ctx, since)
	if err != nil {
		h.respondServiceError(c, "ledger_total_since_failed", err, "since", since)
		return
	}
	c.JSON(http.StatusOK, cr.LedgerTotal{Hours: total, Since: &since})
}

// @Summary      Apply ledger correction
// @Description  Password-gated. Appends the delta that brings the total to target_total_hours.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body      CorrectionRequest  true  "Correction"
// @Success      201   {object}  models.CorrectionEntry
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/ledger/corrections [post]
// @Security     BearerAuth
func (h *Handler) applyCorrection(c *gin.Context) {
	var req CorrectionRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	entry, err := h.services.Correction.ApplyCorrection(c.Request.Context(), req.Password, service.CorrectionParams{
		TargetTotalHours: req.TargetTotalHours,
		Reason:           req.Reason,
	})
	if err != nil {
		h.respondServiceError(c, "ledger_correction_failed", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// @Summary      Ledger corrections
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, corrections"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/ledger/corrections [get]
// @Security     BearerAuth
func (h *Handler) listCorrections(c *gin.Context) {
	list, err := h.services.Correction.ListCorrections(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "ledger_corrections_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(list),
		"corrections": list,
	})
}

// @Summary      Dashboard snapshot
// @Description  Ledger, maintenance interval, cartridge and active session read together
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  compressor_runtime.Dashboard
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/dashboard [get]
// @Security     BearerAuth
func (h *Handler) getDashboard(c *gin.Context) {
	snap, err := h.services.Dashboard.Snapshot(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "dashboard_snapshot_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
