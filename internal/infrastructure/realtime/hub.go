package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/config"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// CloseUnauthorized is sent before dropping a handshake that carried no valid
// access token.
const CloseUnauthorized = 4401

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// TokenVerifier authenticates the websocket handshake.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*services.Claims, error)
}

// NotificationViewer handles viewed acknowledgements arriving over the socket.
type NotificationViewer interface {
	MarkViewed(ctx context.Context, id domain.NotificationID, userID domain.UserID) error
}

// Metrics observes the live connection count. Nil disables observation.
type Metrics interface {
	SetLiveConnections(n int)
}

// client is one registered socket. The handle distinguishes it from any later
// socket the same user opens, so a slow cleanup never evicts a newer
// connection.
type client struct {
	conn   *websocket.Conn
	handle uint64

	// gorilla allows one concurrent writer per connection.
	writeMu sync.Mutex
}

func (c *client) writeJSON(v interface{}, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteJSON(v)
}

// Hub is the live connection registry: at most one socket per user, last
// connection wins. It implements ports.Pusher for the dispatcher.
type Hub struct {
	verifier TokenVerifier
	viewer   NotificationViewer
	metrics  Metrics

	connections map[domain.UserID]*client
	nextHandle  uint64
	mu          sync.RWMutex

	pingInterval   time.Duration
	pongTimeout    time.Duration
	writeTimeout   time.Duration
	maxMessageSize int64

	logger *zap.SugaredLogger
}

// clientMessage is the inbound frame format.
type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// envelope is the outbound frame format.
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

func NewHub(verifier TokenVerifier, viewer NotificationViewer, metrics Metrics, cfg config.RealtimeConfig, logger *zap.SugaredLogger) *Hub {
	return &Hub{
		verifier:       verifier,
		viewer:         viewer,
		metrics:        metrics,
		connections:    make(map[domain.UserID]*client),
		pingInterval:   cfg.PingInterval,
		pongTimeout:    cfg.PongTimeout,
		writeTimeout:   cfg.WriteTimeout,
		maxMessageSize: cfg.MaxMessageSize,
		logger:         logger,
	}
}

// HandleWebSocket upgrades the request, authenticates the token and runs the
// connection until the client goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	token := handshakeToken(r)
	if token == "" {
		h.rejectUnauthorized(conn, "missing access token")
		return
	}
	claims, err := h.verifier.VerifyAccessToken(r.Context(), token)
	if err != nil {
		h.rejectUnauthorized(conn, "invalid access token")
		return
	}
	userID := claims.UserID

	c := h.register(userID, conn)
	h.logger.Infow("user connected", "user_id", userID)

	conn.SetReadLimit(h.maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})

	pingTicker := time.NewTicker(h.pingInterval)
	defer pingTicker.Stop()

	messageChan := make(chan clientMessage, 10)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				errorChan <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
			messageChan <- msg
		}
	}()

	for {
		select {
		case msg := <-messageChan:
			if err := h.handleMessage(context.Background(), userID, c, msg); err != nil {
				h.logger.Infow("error handling client message", "user_id", userID, "error", err)
				h.sendError(c, err.Error())
			}

		case <-pingTicker.C:
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				h.logger.Infow("error sending ping", "user_id", userID, "error", err)
				h.unregister(userID, c)
				return
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Infow("error reading client message", "user_id", userID, "error", err)
			}
			h.unregister(userID, c)
			h.logger.Infow("user disconnected", "user_id", userID)
			return
		}
	}
}

// Deliver sends one event to the user's live socket. Returns false when the
// user has no connection or the write fails; a failed socket is evicted.
func (h *Hub) Deliver(userID domain.UserID, event string, payload interface{}) bool {
	h.mu.RLock()
	c, ok := h.connections[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	if err := c.writeJSON(envelope{Event: event, Data: payload}, h.writeTimeout); err != nil {
		h.logger.Infow("live delivery failed, evicting connection", "user_id", userID, "error", err)
		h.unregister(userID, c)
		return false
	}
	return true
}

// IsConnected reports whether the user currently has a live socket.
func (h *Hub) IsConnected(userID domain.UserID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// ConnectionCount returns the number of registered sockets.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) handleMessage(ctx context.Context, userID domain.UserID, c *client, msg clientMessage) error {
	switch msg.Type {
	case "notification_viewed":
		var payload struct {
			NotificationID domain.NotificationID `json:"notification_id"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		if payload.NotificationID == "" {
			return errEmptyNotificationID
		}
		if err := h.viewer.MarkViewed(ctx, payload.NotificationID, userID); err != nil {
			return err
		}
		// The ack goes through the registry, not back down the socket that
		// sent it: if a newer connection replaced the sender, the sync must
		// land on the registered handle.
		h.Deliver(userID, "viewed_sync", map[string]interface{}{"notification_id": payload.NotificationID})
		return nil

	case "ping":
		return c.writeJSON(envelope{Event: "pong"}, h.writeTimeout)

	default:
		return errUnknownMessageType
	}
}

// register installs the connection, closing any previous socket for the user.
func (h *Hub) register(userID domain.UserID, conn *websocket.Conn) *client {
	h.mu.Lock()
	h.nextHandle++
	c := &client{conn: conn, handle: h.nextHandle}
	old, replacing := h.connections[userID]
	h.connections[userID] = c
	n := len(h.connections)
	h.mu.Unlock()

	if replacing {
		h.logger.Infow("closing previous connection for user", "user_id", userID)
		old.conn.Close()
	}
	h.observe(n)
	return c
}

// unregister removes the entry only when it still belongs to this client, so
// a replaced connection's cleanup never drops its successor.
func (h *Hub) unregister(userID domain.UserID, c *client) {
	h.mu.Lock()
	if current, ok := h.connections[userID]; ok && current.handle == c.handle {
		delete(h.connections, userID)
	}
	n := len(h.connections)
	h.mu.Unlock()
	h.observe(n)
}

func (h *Hub) rejectUnauthorized(conn *websocket.Conn, reason string) {
	h.logger.Warnw("websocket handshake rejected", "reason", reason)
	conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(CloseUnauthorized, reason))
}

func (h *Hub) sendError(c *client, message string) {
	c.writeJSON(envelope{
		Event: "error",
		Data:  map[string]interface{}{"message": message},
	}, h.writeTimeout)
}

func (h *Hub) observe(n int) {
	if h.metrics != nil {
		h.metrics.SetLiveConnections(n)
	}
}

// handshakeToken pulls the access token from the query string or the
// Authorization header. Browsers cannot set headers on websocket handshakes,
// so the query form is the primary one.
func handshakeToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
