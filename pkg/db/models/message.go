package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a directed unit of communication between two users. Rows are
// append-only; the only permitted mutation is the unread-to-read transition.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderID    uuid.UUID `gorm:"type:uuid;column:sender_id;not null;index:idx_messages_pair"`
	RecipientID uuid.UUID `gorm:"type:uuid;column:recipient_id;not null;index:idx_messages_pair"`
	Content     string    `gorm:"type:text;not null"`
	Read        bool      `gorm:"column:read;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Sender    *User `gorm:"foreignKey:SenderID"`
	Recipient *User `gorm:"foreignKey:RecipientID"`
}
