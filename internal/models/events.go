package models

import (
	"time"
)

type EventType string

const (
	EventTypeUserRegistered     EventType = "user.registered"
	EventTypePrivacyChanged     EventType = "user.privacy.changed"
	EventTypeCreditsChanged     EventType = "wallet.credits.changed"
	EventTypeReputationUpdated  EventType = "reputation.updated"
	EventTypeReputationMintSent EventType = "reputation.mint.requested"
)

type UserEvent struct {
	EventType EventType      `json:"eventType"`
	UserID    string         `json:"userId"`
	Timestamp time.Time      `json:"timestamp"`
	OldValues map[string]any `json:"oldValues,omitempty"`
	NewValues map[string]any `json:"newValues,omitempty"`
}

// ReputationUpdatedEvent is published by the reputation subsystem.
type ReputationUpdatedEvent struct {
	UserID string  `json:"userId"`
	Score  float64 `json:"score"`
}
