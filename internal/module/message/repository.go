package message

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the data access interface for project messages.
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]*Message, error)
	Update(ctx context.Context, msg *Message) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new message repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new message.
func (r *repository) Create(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetByID retrieves a message by ID.
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	var msg Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListRecent lists a project's newest messages first.
func (r *repository) ListRecent(ctx context.Context, projectID uuid.UUID, limit int) ([]*Message, error) {
	var messages []*Message
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Update saves changes to a message.
func (r *repository) Update(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// Delete removes a message.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
