package websocket

import (
	"github.com/doerhub/doerhub-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSend Action = "send"
	ActionPing Action = "ping"
)

// RequestPayload is the single shape every client frame decodes into.
type RequestPayload struct {
	Action Action `json:"action"`
	// Body is the message text for ActionSend.
	Body string `json:"body,omitempty"`
	// Ref is echoed back on the ack so clients can match optimistic rows.
	Ref string `json:"ref,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventMessage Event = "message"
	EventAck     Event = "ack"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// MessageEvent carries a chat message from the room.
type MessageEvent struct {
	Event   Event              `json:"event"`
	Message *model.ChatMessage `json:"message"`
}

// AckEvent confirms a send and returns the stored message.
type AckEvent struct {
	Event   Event              `json:"event"`
	Ref     string             `json:"ref,omitempty"`
	Message *model.ChatMessage `json:"message"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Ref   string `json:"ref,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
