// Package messaging tracks connected editor sockets and fans presence notices out to
// every operator editing the same banner.
package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

// Notice types broadcast by the hub.
const (
	NoticePresence = "presence"
	NoticeSaved    = "peerSaved"
)

// EditorClient is one connected editor socket. The hub releases it on unregister, which
// stops the write pump.
type EditorClient struct {
	Conn      *websocket.Conn
	BannerID  string
	SessionID string
	Send      chan []byte

	released  chan struct{}
	closeOnce sync.Once
}

// NewEditorClient wraps a connection with a buffered outbound queue.
func NewEditorClient(conn *websocket.Conn, bannerID, sessionID string) *EditorClient {
	return &EditorClient{
		Conn:      conn,
		BannerID:  bannerID,
		SessionID: sessionID,
		Send:      make(chan []byte, 32),
		released:  make(chan struct{}),
	}
}

func (c *EditorClient) release() {
	c.closeOnce.Do(func() { close(c.released) })
}

// Enqueue queues a message for the write pump, giving up after timeout.
func (c *EditorClient) Enqueue(msg []byte, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c.Send <- msg:
		return true
	case <-c.released:
		return false
	case <-timer.C:
		return false
	}
}

// WritePump is the only writer on the connection. It drains Send and keeps the peer
// alive with pings until the client is released or a write fails.
func (c *EditorClient) WritePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.released:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Notice is a hub-originated message.
type Notice struct {
	Type      string     `json:"type"`
	BannerID  string     `json:"bannerId"`
	Editors   int        `json:"editors,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	Changed   *time.Time `json:"changed,omitempty"`
}

type peerNotice struct {
	from   *EditorClient
	notice Notice
}

// EditorHub manages all connected editor clients grouped by banner.
type EditorHub struct {
	bannerClients map[string]map[*EditorClient]bool
	register      chan *EditorClient
	unregister    chan *EditorClient
	peers         chan peerNotice
	done          chan struct{}
	interval      time.Duration
	logger        *logging.ChanneledLogger
	mu            sync.RWMutex
}

// NewEditorHub creates a hub that re-broadcasts presence every interval.
func NewEditorHub(interval time.Duration, logger *logging.ChanneledLogger) *EditorHub {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	return &EditorHub{
		bannerClients: make(map[string]map[*EditorClient]bool),
		register:      make(chan *EditorClient),
		unregister:    make(chan *EditorClient),
		peers:         make(chan peerNotice, 16),
		done:          make(chan struct{}),
		interval:      interval,
		logger:        logger,
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, releasing every client.
func (h *EditorHub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.bannerClients[client.BannerID]; !ok {
				h.bannerClients[client.BannerID] = make(map[*EditorClient]bool)
			}
			h.bannerClients[client.BannerID][client] = true
			h.mu.Unlock()
			h.logger.Editor().Debug("Editor client registered", "bannerId", client.BannerID, "session", client.SessionID)
			h.broadcastPresence(client.BannerID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.bannerClients[client.BannerID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					client.release()
					if len(clients) == 0 {
						delete(h.bannerClients, client.BannerID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Editor().Debug("Editor client unregistered", "bannerId", client.BannerID, "session", client.SessionID)
			h.broadcastPresence(client.BannerID)

		case p := <-h.peers:
			h.broadcast(p.notice.BannerID, p.from, p.notice)

		case <-ticker.C:
			h.mu.RLock()
			bannerIDs := make([]string, 0, len(h.bannerClients))
			for id := range h.bannerClients {
				bannerIDs = append(bannerIDs, id)
			}
			h.mu.RUnlock()
			for _, id := range bannerIDs {
				h.broadcastPresence(id)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.bannerClients {
				for client := range clients {
					client.release()
				}
				delete(h.bannerClients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register queues a client for registration. After the hub stops the client is released
// immediately.
func (h *EditorHub) Register(client *EditorClient) {
	select {
	case h.register <- client:
	case <-h.done:
		client.release()
	}
}

// Unregister queues a client for unregistration.
func (h *EditorHub) Unregister(client *EditorClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.release()
	}
}

// NotifySaved tells the other editors of a banner that from persisted a new version.
// Persistence is last-writer-wins, so this is advisory only.
func (h *EditorHub) NotifySaved(from *EditorClient, changed *time.Time) {
	notice := Notice{Type: NoticeSaved, BannerID: from.BannerID, SessionID: from.SessionID, Changed: changed}
	select {
	case h.peers <- peerNotice{from: from, notice: notice}:
	default:
		h.logger.Editor().Warn("Dropped peer save notice", "bannerId", from.BannerID)
	}
}

// EditorCount returns the number of sockets open on a banner.
func (h *EditorHub) EditorCount(bannerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.bannerClients[bannerID])
}

// SessionCount returns the number of open editor sockets.
func (h *EditorHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, clients := range h.bannerClients {
		total += len(clients)
	}
	return total
}

func (h *EditorHub) broadcastPresence(bannerID string) {
	h.broadcast(bannerID, nil, Notice{Type: NoticePresence, BannerID: bannerID, Editors: h.EditorCount(bannerID)})
}

// broadcast never blocks; a client with a full queue misses the notice.
func (h *EditorHub) broadcast(bannerID string, skip *EditorClient, notice Notice) {
	message, err := json.Marshal(notice)
	if err != nil {
		h.logger.Editor().Error("Failed to marshal editor notice", "type", notice.Type, "error", err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.bannerClients[bannerID] {
		if client == skip {
			continue
		}
		select {
		case client.Send <- message:
		default:
		}
	}
}
