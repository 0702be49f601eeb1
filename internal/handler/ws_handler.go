package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doerhub/doerhub-backend/internal/chat"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/metrics"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/service"
	ws "github.com/doerhub/doerhub-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const maxChatBodyRunes = 4000

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams project chat rooms over WebSocket.
type WSHandler struct {
	chatService *service.ChatService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
	sendLimit   rate.Limit
	sendBurst   int
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(chatService *service.ChatService, cfg *config.Config, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		chatService: chatService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(cfg.AllowedOrigins),
		sendLimit:   rate.Limit(cfg.ChatMessagesPerSecond),
		sendBurst:   max(cfg.ChatBurst, 1),
	}
}

// ChatStream godoc
// WS /ws/v1/projects/:id/chat?token=...
// Upgrades to WebSocket for live chat in a project's room.
func (h *WSHandler) ChatStream(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before upgrading so access failures still get an HTTP status.
	pubsub, room, err := h.chatService.Subscribe(ctx, projectID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	defer pubsub.Close()

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	metrics.ChatConnections.Inc()
	defer metrics.ChatConnections.Dec()

	wsLog := h.log.With().
		Str("project_id", projectID.String()).
		Str("room_id", room.ID.String()).
		Logger()
	wsLog.Debug().Msg("Chat stream opened")

	store := chat.NewStore(chat.DefaultStoreSize)
	limiter := rate.NewLimiter(h.sendLimit, h.sendBurst)

	go h.forward(ctx, cancel, conn, pubsub, store, wsLog)
	h.readLoop(ctx, conn, projectID, store, limiter, wsLog)

	wsLog.Debug().Msg("Chat stream closed")
}

// forward relays room messages to the client and keeps the connection alive
// with pings. It closes the connection when the stream ends.
func (h *WSHandler) forward(ctx context.Context, cancel context.CancelFunc, conn *ws.Conn, pubsub *redis.PubSub, store *chat.Store, log zerolog.Logger) {
	defer conn.Close()
	defer cancel()

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		case m, ok := <-ch:
			if !ok {
				return
			}
			var msg model.ChatMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				log.Warn().Err(err).Msg("Dropping malformed chat event")
				continue
			}
			if !store.Add(msg.ID) {
				continue
			}
			if err := conn.WriteTyped(ws.MessageEvent{Event: ws.EventMessage, Message: &msg}); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(ctx context.Context, conn *ws.Conn, projectID uuid.UUID, store *chat.Store, limiter *rate.Limiter, log zerolog.Logger) {
	for {
		var req ws.RequestPayload
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch req.Action {
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionSend:
			sendChat(ctx, h.chatService, conn, projectID, store, limiter, &req, log)
		default:
			conn.WriteError(req.Ref, "unknown action: "+string(req.Action))
		}
	}
}

// chatSender stores and publishes a chat message.
type chatSender interface {
	Send(ctx context.Context, projectID, id uuid.UUID, body string) (*model.ChatMessage, error)
}

// eventWriter writes events to one client.
type eventWriter interface {
	WriteTyped(v interface{}) error
	WriteError(ref, errMsg string) error
}

// sendChat handles a send action. The message id is recorded in store before
// publishing, so the room echo of the sender's own message is always dropped
// by forward, however early it arrives.
func sendChat(ctx context.Context, sender chatSender, conn eventWriter, projectID uuid.UUID, store *chat.Store, limiter *rate.Limiter, req *ws.RequestPayload, log zerolog.Logger) {
	if !limiter.Allow() {
		conn.WriteError(req.Ref, "rate limit exceeded")
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" || utf8.RuneCountInString(body) > maxChatBodyRunes {
		conn.WriteError(req.Ref, "body must be 1 to 4000 characters")
		return
	}

	id := uuid.New()
	store.Add(id)

	msg, err := sender.Send(ctx, projectID, id, body)
	if err != nil {
		log.Error().Err(err).Msg("Chat send failed")
		conn.WriteError(req.Ref, "send failed")
		return
	}

	conn.WriteTyped(ws.AckEvent{Event: ws.EventAck, Ref: req.Ref, Message: msg})
}
