package settings

import (
	"time"

	"github.com/google/uuid"
)

// Setting is one workspace-level configuration entry.
type Setting struct {
	Key       string     `json:"key" gorm:"primaryKey"`
	Value     string     `json:"value" gorm:"not null"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the database table name.
func (Setting) TableName() string {
	return "workspace_settings"
}
