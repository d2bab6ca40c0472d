package user

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a registered user's profile. FullName is the display
// name other modules resolve when rendering people.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"full_name" gorm:"column:full_name;not null"`
	AvatarURL string    `json:"avatar_url,omitempty" gorm:"column:avatar_url"`
	Title     string    `json:"title,omitempty"` // job title shown on member cards

	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	IsAdmin      bool   `json:"is_admin" gorm:"column:is_admin;default:false"`

	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt *time.Time `json:"-" gorm:"column:deleted_at;index"` // Soft delete
}

// TableName returns the database table name.
func (Profile) TableName() string {
	return "profiles"
}

// IsDeleted reports whether the profile has been soft deleted.
func (p *Profile) IsDeleted() bool {
	return p.DeletedAt != nil
}
