package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserChanged      Type = "session.user_changed"
	TypeSessionCleared   Type = "session.cleared"
	TypeTokenRefreshed   Type = "session.token_refreshed"
	TypeListingSubmitted Type = "listing.submitted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func New(t Type, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
