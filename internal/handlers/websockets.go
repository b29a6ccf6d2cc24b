package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"compressor_runtime/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxInboundBytes = 512
	defaultInterval = time.Second
	maxInterval     = 10 * time.Second

	msgTypeDashboard = "dashboard"
	msgTypeError     = "error"
)

type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// The stream is read-only and carries no credentials, so any origin may subscribe.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dashboardStream owns the write side of one subscriber connection.
type dashboardStream struct {
	conn *websocket.Conn
}

func (s *dashboardStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

func (s *dashboardStream) ping() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *dashboardStream) close(code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = s.conn.Close()
}

// @Summary      Dashboard stream
// @Description  WebSocket pushing dashboard snapshots every interval (?interval=2s or ?interval_ms=2000, max 10s). A failed snapshot is sent as an error frame and the stream continues.
// @Tags         dashboard
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	stream := &dashboardStream{conn: conn}

	if h.metrics != nil {
		h.metrics.StreamOpened()
		defer h.metrics.StreamClosed()
	}

	conn.SetReadLimit(maxInboundBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	gone := make(chan struct{})
	go drainInbound(conn, gone, h.log)

	ctx := c.Request.Context()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	if err := h.pushSnapshot(ctx, stream); err != nil {
		h.log.Infow("ws_write_failed", "err", err)
		_ = conn.Close()
		return
	}
	for {
		select {
		case <-gone:
			_ = conn.Close()
			return
		case <-ctx.Done():
			stream.close(websocket.CloseGoingAway, "server shutting down")
			return
		case <-pinger.C:
			if err := stream.ping(); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := h.pushSnapshot(ctx, stream); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				_ = conn.Close()
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 within (0, 10s] and
// falls back to the configured stream interval.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	valid := func(d time.Duration) bool { return d > 0 && d <= maxInterval }

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && valid(d) {
			return d
		}
	}
	if s := c.Query("interval_ms"); s != "" {
		if ms, err := strconv.Atoi(s); err == nil && valid(time.Duration(ms)*time.Millisecond) {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return h.streamInterval
}

// drainInbound keeps control frames flowing and signals when the peer goes away.
func drainInbound(conn *websocket.Conn, gone chan<- struct{}, log *logger.Logger) {
	defer close(gone)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// pushSnapshot writes the current dashboard, or an error frame if the
// snapshot could not be read. Only write failures end the stream.
func (h *Handler) pushSnapshot(ctx context.Context, s *dashboardStream) error {
	snap, err := h.services.Dashboard.Snapshot(ctx)
	if err != nil {
		h.log.Warnw("ws_snapshot_failed", "err", err)
		return s.write(wsEnvelope{Type: msgTypeError, Error: "dashboard unavailable"})
	}
	return s.write(wsEnvelope{Type: msgTypeDashboard, Data: snap})
}
