package message

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry on a project's message board.
type Message struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID  `json:"author_id" gorm:"type:uuid;not null;index"`
	Body      string     `json:"body" gorm:"not null"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the database table name.
func (Message) TableName() string {
	return "project_messages"
}

// IsEdited reports whether the message has been edited since posting.
func (m *Message) IsEdited() bool {
	return m.EditedAt != nil
}
