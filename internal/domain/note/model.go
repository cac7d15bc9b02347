package note

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid note input")

// Note is a free-form text record. Metadata carries client-defined display
// state (color, pinning, formatting) the server stores but never interprets.
type Note struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index:idx_note_user"`
	Title     string         `json:"title" gorm:"size:255;not null"`
	Content   string         `json:"content" gorm:"type:text"`
	Tags      []string       `json:"tags" gorm:"type:jsonb;serializer:json"`
	Metadata  datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

type CreateNoteInput struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`
}

type UpdateNoteInput struct {
	Title    *string         `json:"title,omitempty"`
	Content  *string         `json:"content,omitempty"`
	Tags     *[]string       `json:"tags,omitempty"`
	Metadata *datatypes.JSON `json:"metadata,omitempty"`
}

func (Note) TableName() string {
	return "notes"
}

// Apply merges a patch into the note.
func (n *Note) Apply(input UpdateNoteInput, now time.Time) {
	if input.Title != nil {
		n.Title = *input.Title
	}
	if input.Content != nil {
		n.Content = *input.Content
	}
	if input.Tags != nil {
		n.Tags = *input.Tags
	}
	if input.Metadata != nil {
		n.Metadata = *input.Metadata
	}
	n.UpdatedAt = now
}

func (n *Note) Validate() error {
	if n.Title == "" || n.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	return n.Validate()
}
