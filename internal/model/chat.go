package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom is the conversation attached to a project.
type ChatRoom struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is a single message in a room.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageRequest is the payload for posting a chat message.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=4000"`
}
