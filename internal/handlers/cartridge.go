package handlers

import (
	"net/http"

	"compressor_runtime/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordChangeRequest is the payload of POST /cartridge/changes.
type RecordChangeRequest struct {
	Password   string            `json:"password"`
	Operator   string            `json:"operator" example:"bo"`
	Components map[string]bool   `json:"components"`
	BatchCodes map[string]string `json:"batch_codes,omitempty"`
}

// UpdateConfigRequest is the payload of PUT /cartridge/config.
type UpdateConfigRequest struct {
	Password         string  `json:"password"`
	IntervalHours    float64 `json:"interval_hours" example:"25"`
	WarningLeadHours float64 `json:"warning_lead_hours" example:"2"`
}

// @Summary      Cartridge status
// @Tags         cartridge
// @Produce      json
// @Success      200  {object}  compressor_runtime.CartridgeStatus
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/cartridge/status [get]
// @Security     BearerAuth
func (h *Handler) getCartridgeStatus(c *gin.Context) {
	st, err := h.services.Cartridge.Status(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "cartridge_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Record cartridge change
// @Description  Password-gated. Also resets the maintenance interval.
// @Tags         cartridge
// @Accept       json
// @Produce      json
// @Param        body  body      RecordChangeRequest  true  "Change"
// @Success      201   {object}  models.CartridgeChangeEvent
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/cartridge/changes [post]
// @Security     BearerAuth
func (h *Handler) recordCartridgeChange(c *gin.Context) {
	var req RecordChangeRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	ev, err := h.services.Cartridge.RecordChange(c.Request.Context(), req.Password, service.ChangeParams{
		Operator:   req.Operator,
		Components: req.Components,
		BatchCodes: req.BatchCodes,
	})
	if err != nil {
		h.respondServiceError(c, "cartridge_change_failed", err, "operator", req.Operator)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// @Summary      Cartridge changes
// @Tags         cartridge
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, changes"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/cartridge/changes [get]
// @Security     BearerAuth
func (h *Handler) listCartridgeChanges(c *gin.Context) {
	list, err := h.services.Cartridge.ChangeHistory(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "cartridge_changes_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(list),
		"changes": list,
	})
}

// @Summary      Active cartridge config
// @Tags         cartridge
// @Produce      json
// @Success      200  {object}  models.CartridgeConfig
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/cartridge/config [get]
// @Security     BearerAuth
func (h *Handler) getCartridgeConfig(c *gin.Context) {
	cfg, err := h.services.Cartridge.ActiveConfig(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "cartridge_config_failed", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Update cartridge config
// @Description  Password-gated. Stores a new active version.
// @Tags         cartridge
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateConfigRequest  true  "Thresholds"
// @Success      200   {object}  models.CartridgeConfig
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/cartridge/config [put]
// @Security     BearerAuth
func (h *Handler) updateCartridgeConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	cfg, err := h.services.Cartridge.UpdateConfig(c.Request.Context(), req.Password, service.ConfigParams{
		IntervalHours:    req.IntervalHours,
		WarningLeadHours: req.WarningLeadHours,
	})
	if err != nil {
		h.respondServiceError(c, "cartridge_config_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Cartridge config history
// @Tags         cartridge
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, configs"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/cartridge/config/history [get]
// @Security     BearerAuth
func (h *Handler) getCartridgeConfigHistory(c *gin.Context) {
	list, err := h.services.Cartridge.ConfigHistory(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "cartridge_config_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(list),
		"configs": list,
	})
}
