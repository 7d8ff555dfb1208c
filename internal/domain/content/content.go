// Package content names the editable entity kinds and the event emitted
// after each successful change.
package content

import "github.com/google/uuid"

type Entity string

const (
	EntityProfile     Entity = "profile"
	EntityProject     Entity = "project"
	EntitySkill       Entity = "skill"
	EntityExperience  Entity = "experience"
	EntityCertificate Entity = "certificate"
	EntityMedia       Entity = "media"
)

// Label is the human form used in notifications.
func (e Entity) Label() string {
	return string(e)
}

type EventType string

const (
	EventCreated  EventType = "created"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
	EventUploaded EventType = "uploaded"
)

// Action is the verb of a mutation, as written in notifications.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionUpload Action = "upload"
)

func (a Action) Past() string {
	switch a {
	case ActionCreate:
		return "created"
	case ActionUpdate:
		return "updated"
	case ActionDelete:
		return "deleted"
	case ActionUpload:
		return "uploaded"
	}
	return string(a)
}

func (a Action) EventType() EventType {
	return EventType(a.Past())
}

type Event struct {
	EventType   EventType `json:"event_type"`
	Entity      Entity    `json:"entity"`
	EntityID    uuid.UUID `json:"entity_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OldImageURL *string   `json:"old_image_url,omitempty"`
	NewImageURL *string   `json:"new_image_url,omitempty"`
}

// OrphanedImage returns the image URL that the event leaves unreferenced,
// if any.
func (e Event) OrphanedImage() (string, bool) {
	if e.OldImageURL == nil || *e.OldImageURL == "" {
		return "", false
	}
	switch e.EventType {
	case EventDeleted:
		return *e.OldImageURL, true
	case EventUpdated:
		if e.NewImageURL == nil || *e.NewImageURL != *e.OldImageURL {
			return *e.OldImageURL, true
		}
	}
	return "", false
}
