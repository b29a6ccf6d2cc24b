package handlers

import (
	"net/http"
	"time"

	"compressor_runtime/internal/logger"
	"compressor_runtime/internal/metrics"
	"compressor_runtime/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	metrics        *metrics.Metrics
	limiter        *rateLimiter
	streamInterval time.Duration
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMetrics instruments every route and exposes GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithRateLimit limits password-gated routes to rps requests per second per
// client IP. A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(h *Handler) {
		if rps > 0 {
			h.limiter = newRateLimiter(rps, burst)
		}
	}
}

// WithStreamInterval sets the default dashboard push period for /ws.
func WithStreamInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 && d <= maxInterval {
			h.streamInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log, streamInterval: defaultInterval}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Dashboard stream (HTTP upgrade), same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerSessionRoutes(api)
		h.registerMaintenanceRoutes(api)
		h.registerCartridgeRoutes(api)
		h.registerLedgerRoutes(api)
		api.GET("/dashboard", h.getDashboard)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		// Body example: {"operator":"ana","pre_check":{"tested":true,"result":"OK","tester_name":"bo"}}
		sessions.POST("/start", h.startSession)
		sessions.POST("/:id/stop", h.stopSession)
		sessions.POST("/:id/emergency-stop", h.emergencyStop)
		sessions.GET("/active", h.getActiveSession)
		sessions.GET("", h.listSessions)
	}
}

func (h *Handler) registerMaintenanceRoutes(api *gin.RouterGroup) {
	interval := api.Group("/maintenance/interval")
	{
		interval.GET("", h.getIntervalStatus)
		interval.GET("/history", h.getIntervalHistory)
		interval.POST("/reset", h.resetInterval)
	}
}

func (h *Handler) registerCartridgeRoutes(api *gin.RouterGroup) {
	cartridge := api.Group("/cartridge")
	{
		cartridge.GET("/status", h.getCartridgeStatus)
		cartridge.GET("/changes", h.listCartridgeChanges)
		cartridge.POST("/changes", h.rateLimited(), h.recordCartridgeChange)
		cartridge.GET("/config", h.getCartridgeConfig)
		cartridge.PUT("/config", h.rateLimited(), h.updateCartridgeConfig)
		cartridge.GET("/config/history", h.getCartridgeConfigHistory)
	}
}

func (h *Handler) registerLedgerRoutes(api *gin.RouterGroup) {
	ledger := api.Group("/ledger")
	{
		ledger.GET("", h.getLedgerTotal)
		ledger.GET("/corrections", h.listCorrections)
		ledger.POST("/corrections", h.rateLimited(), h.applyCorrection)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
