package messages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the message log.
type Repository interface {
	Create(ctx context.Context, message *models.Message) error
	// ListForUser returns every message the user sent or received, newest
	// first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
	// ListBetween returns the full history between two users, oldest first.
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
	// MarkRead flips unread messages from sender to recipient and reports
	// how many rows changed.
	MarkRead(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a message repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) MarkRead(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ?", senderID, recipientID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
