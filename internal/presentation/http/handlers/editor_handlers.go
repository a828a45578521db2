package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/services"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

// EditorSocketSettings tunes editor websocket keepalive and limits.
type EditorSocketSettings struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessage     int64
	AllowedOrigins []string
}

// EditorSocketSettingsFromConfig reads socket settings from pkg/config.
func EditorSocketSettingsFromConfig() EditorSocketSettings {
	return EditorSocketSettings{
		WriteTimeout:   config.EditorWriteTimeout,
		PongTimeout:    config.EditorPongTimeout,
		PingInterval:   config.EditorPingInterval,
		MaxMessage:     config.EditorMaxMessage,
		AllowedOrigins: config.CORSAllowedOrigins,
	}
}

// EditorHandlers opens live editing sessions over websockets
type EditorHandlers struct {
	editorService *services.EditorService
	bannerService *services.BannerService
	authService   *services.AuthService
	hub           *messaging.EditorHub
	settings      EditorSocketSettings
	upgrader      websocket.Upgrader
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewEditorHandlers creates editor handlers with injected dependencies
func NewEditorHandlers(editorService *services.EditorService, bannerService *services.BannerService, authService *services.AuthService, hub *messaging.EditorHub, settings EditorSocketSettings, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EditorHandlers {
	if settings.WriteTimeout <= 0 {
		settings.WriteTimeout = 10 * time.Second
	}
	if settings.PongTimeout <= 0 {
		settings.PongTimeout = 60 * time.Second
	}
	if settings.PingInterval <= 0 || settings.PingInterval >= settings.PongTimeout {
		settings.PingInterval = settings.PongTimeout * 9 / 10
	}
	h := &EditorHandlers{
		editorService: editorService,
		bannerService: bannerService,
		authService:   authService,
		hub:           hub,
		settings:      settings,
		logger:        logger,
		perfTracker:   perfTracker,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts same-host upgrades and the configured CORS origins.
func (h *EditorHandlers) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, allowed := range h.settings.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	h.logger.Editor().Warn("Rejected editor socket origin", "origin", origin)
	return false
}

// IssueTicket returns a short-lived token for opening one banner's editor socket
func (h *EditorHandlers) IssueTicket(c *gin.Context) {
	bannerID := c.Param("id")
	marker := h.perfTracker.StartOperation("editor:issue_ticket", bannerID)
	defer marker.Complete()

	claims, ok := middleware.GetAdminClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if _, err := h.bannerService.GetByID(c.Request.Context(), bannerID); err != nil {
		marker.SetError(err)
		respondError(c, err, "failed to load banner")
		return
	}

	ticket, expires, err := h.authService.IssueEditorTicket(claims, bannerID)
	if err != nil {
		marker.SetError(err)
		h.logger.Auth().Error("Editor ticket issue failed", "bannerId", bannerID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue editor ticket"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"ticket":    ticket,
		"expiresAt": expires,
		"path":      "/api/v1/admin/editor/" + bannerID + "/ws?token=" + url.QueryEscape(ticket),
	})
}

// EditorSocket upgrades to a websocket and runs one editor session until the peer leaves
func (h *EditorHandlers) EditorSocket(c *gin.Context) {
	bannerID := c.Param("id")
	ctx := c.Request.Context()

	session, err := h.editorService.Open(ctx, bannerID)
	if err != nil {
		h.logger.Editor().Warn("Editor session open failed", "bannerId", bannerID, "error", err.Error())
		respondError(c, err, "failed to open editor session")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		session.Close()
		h.logger.Editor().Warn("Editor socket upgrade failed", "bannerId", bannerID, "error", err.Error())
		return
	}

	client := messaging.NewEditorClient(conn, bannerID, session.ID)
	h.hub.Register(client)
	go client.WritePump(h.settings.PingInterval, h.settings.WriteTimeout)

	h.serve(ctx, client, session)
}

// serve is the session's event loop. Commands are handled strictly in arrival order on
// this goroutine; the write pump owns the socket's write side.
func (h *EditorHandlers) serve(ctx context.Context, client *messaging.EditorClient, session *services.EditorSession) {
	start := time.Now()
	commands := 0
	defer func() {
		session.Close()
		h.hub.Unregister(client)
		h.logger.Perf().Info("Editor session ended", "bannerId", session.BannerID, "session", session.ID,
			"commands", commands, "dirty", session.Dirty(), "duration", time.Since(start))
	}()

	conn := client.Conn
	if h.settings.MaxMessage > 0 {
		conn.SetReadLimit(h.settings.MaxMessage)
	}
	_ = conn.SetReadDeadline(time.Now().Add(h.settings.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.settings.PongTimeout))
	})

	if !h.send(client, session.StateEvent()) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Editor().Warn("Editor socket closed unexpectedly", "bannerId", session.BannerID, "session", session.ID, "error", err.Error())
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.settings.PongTimeout))

		var cmd services.EditorCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			if !h.send(client, services.EditorEvent{Type: services.EventError, Message: "malformed command"}) {
				return
			}
			continue
		}
		commands++

		for _, ev := range session.Handle(ctx, cmd) {
			if !h.send(client, ev) {
				return
			}
			if ev.Type == services.EventSaved {
				h.hub.NotifySaved(client, ev.Changed)
			}
		}
	}
}

func (h *EditorHandlers) send(client *messaging.EditorClient, ev services.EditorEvent) bool {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Editor().Error("Failed to marshal editor event", "type", ev.Type, "error", err.Error())
		return true
	}
	if !client.Enqueue(msg, h.settings.WriteTimeout) {
		h.logger.Editor().Warn("Editor client not draining, closing session", "bannerId", client.BannerID, "session", client.SessionID)
		return false
	}
	return true
}
