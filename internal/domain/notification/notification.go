package notification

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient, dismissible message for the owner. It is never
// persisted.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func Success(ownerID uuid.UUID, text string) Notification {
	return Notification{ID: uuid.New(), OwnerID: ownerID, Kind: KindSuccess, Text: text, CreatedAt: time.Now().UTC()}
}

func Failure(ownerID uuid.UUID, text string) Notification {
	return Notification{ID: uuid.New(), OwnerID: ownerID, Kind: KindError, Text: text, CreatedAt: time.Now().UTC()}
}
