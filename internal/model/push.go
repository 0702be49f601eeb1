package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is a browser push endpoint registered by a supervisor.
type PushSubscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// PushSubscriptionRequest mirrors the browser PushSubscription JSON.
type PushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url,max=2048"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required,max=256"`
		Auth   string `json:"auth" binding:"required,max=256"`
	} `json:"keys" binding:"required"`
}

// UnsubscribeRequest removes one push endpoint.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url,max=2048"`
}

// NotificationKind labels what a push notification is about.
type NotificationKind string

const (
	NotificationDeliverableSubmitted NotificationKind = "deliverable_submitted"
	NotificationRevisionRequested    NotificationKind = "revision_requested"
	NotificationChatMessage          NotificationKind = "chat_message"
)

// Notification is queued in Redis and delivered by the push worker.
type Notification struct {
	UserID    uuid.UUID        `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	URL       string           `json:"url,omitempty"`
	ProjectID *uuid.UUID       `json:"project_id,omitempty"`
}
