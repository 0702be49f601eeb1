package repository

import (
	"context"
	"time"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles chat room and message data access.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// EnsureRoom returns the room of a project, creating it on first use.
func (r *ChatRepository) EnsureRoom(ctx context.Context, projectID uuid.UUID) (*model.ChatRoom, error) {
	room := &model.ChatRoom{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_rooms (project_id) VALUES ($1)
		 ON CONFLICT (project_id) DO UPDATE SET project_id = EXCLUDED.project_id
		 RETURNING id, project_id, created_at`, projectID,
	).Scan(&room.ID, &room.ProjectID, &room.CreatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// ListMessages returns up to limit messages older than before, newest first.
func (r *ChatRepository) ListMessages(ctx context.Context, roomID uuid.UUID, before time.Time, limit int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, room_id, sender_id, body, created_at
		 FROM chat_messages
		 WHERE room_id = $1 AND created_at < $2
		 ORDER BY created_at DESC
		 LIMIT $3`, roomID, before, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ChatMessage, error) {
		var m model.ChatMessage
		err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Body, &m.CreatedAt)
		return m, err
	})
}

// CreateMessage stores a message. A preset m.ID is kept; otherwise the
// database assigns one.
func (r *ChatRepository) CreateMessage(ctx context.Context, m *model.ChatMessage) error {
	var id *uuid.UUID
	if m.ID != uuid.Nil {
		id = &m.ID
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (id, room_id, sender_id, body)
		 VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4)
		 RETURNING id, created_at`,
		id, m.RoomID, m.SenderID, m.Body,
	).Scan(&m.ID, &m.CreatedAt)
}
