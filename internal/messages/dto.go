package messages

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmtotable/farmtotable-backend/internal/users"
	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
)

// MessageDTO is a message with both party identities resolved.
type MessageDTO struct {
	ID        uuid.UUID     `json:"id"`
	Sender    users.UserDTO `json:"sender"`
	Recipient users.UserDTO `json:"recipient"`
	Content   string        `json:"content"`
	Read      bool          `json:"read"`
	CreatedAt time.Time     `json:"created_at"`
}

// ConversationDTO summarizes the exchange with one counterpart.
type ConversationDTO struct {
	User        users.UserDTO `json:"user"`
	LastMessage MessageDTO    `json:"last_message"`
	UnreadCount int           `json:"unread_count"`
}

// SendRequest is the payload for posting a new message.
type SendRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Content     string    `json:"content" validate:"required"`
}

// MarkReadResult reports how many messages transitioned to read.
type MarkReadResult struct {
	Updated int64 `json:"updated"`
}

func toMessageDTO(m *models.Message, sender, recipient users.UserDTO) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Sender:    sender,
		Recipient: recipient,
		Content:   m.Content,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}
