package messages

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/internal/users"
	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
)

// Service derives conversation views from the append-only message log and
// manages the unread-to-read transition.
type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, req SendRequest) (*MessageDTO, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationDTO, error)
	GetTranscript(ctx context.Context, userID, counterpartID uuid.UUID) ([]MessageDTO, error)
	MarkRead(ctx context.Context, userID, counterpartID uuid.UUID) (*MarkReadResult, error)
	ListUsers(ctx context.Context, userID uuid.UUID) ([]users.UserDTO, error)
}

// ServiceParams wires messaging dependencies.
type ServiceParams struct {
	Messages Repository
	Users    users.Repository
	Logger   *logger.Logger
}

type service struct {
	messages Repository
	users    users.Repository
	logg     *logger.Logger
}

// NewService validates dependencies and returns the messaging service.
func NewService(params ServiceParams) (Service, error) {
	if params.Messages == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "message repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	return &service{
		messages: params.Messages,
		users:    params.Users,
		logg:     params.Logger,
	}, nil
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, req SendRequest) (*MessageDTO, error) {
	if senderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	if req.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content required")
	}

	recipient, err := s.users.FindByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup recipient")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup sender")
	}

	message := &models.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		Read:        false,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"message_id":   message.ID.String(),
			"recipient_id": req.RecipientID.String(),
		})
		s.logg.Info(logCtx, "messages.send.success")
	}

	dto := toMessageDTO(message, users.ToDTO(sender), users.ToDTO(recipient))
	return &dto, nil
}

// ListConversations folds the user's full message history, newest first, into
// one summary per counterpart. The first message seen for a counterpart is
// its most recent, so insertion order of the groups already matches recency;
// that order is part of the contract.
func (s *service) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	rows, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	type group struct {
		last   models.Message
		unread int
	}

	order := make([]uuid.UUID, 0)
	groups := make(map[uuid.UUID]*group)
	for _, m := range rows {
		counterpart := m.SenderID
		if counterpart == userID {
			counterpart = m.RecipientID
		}

		g, ok := groups[counterpart]
		if !ok {
			g = &group{last: m}
			groups[counterpart] = g
			order = append(order, counterpart)
		}
		if !m.Read && m.RecipientID == userID {
			g.unread++
		}
	}

	if len(order) == 0 {
		return []ConversationDTO{}, nil
	}

	identities, err := s.resolveIdentities(ctx, append([]uuid.UUID{userID}, order...))
	if err != nil {
		return nil, err
	}
	self := identities[userID]

	out := make([]ConversationDTO, 0, len(order))
	for _, counterpart := range order {
		g := groups[counterpart]
		other := identities[counterpart]

		senderDTO, recipientDTO := self, other
		if g.last.SenderID == counterpart {
			senderDTO, recipientDTO = other, self
		}

		out = append(out, ConversationDTO{
			User:        other,
			LastMessage: toMessageDTO(&g.last, senderDTO, recipientDTO),
			UnreadCount: g.unread,
		})
	}
	return out, nil
}

func (s *service) GetTranscript(ctx context.Context, userID, counterpartID uuid.UUID) ([]MessageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	if counterpartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counterpart required")
	}

	rows, err := s.messages.ListBetween(ctx, userID, counterpartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	identities, err := s.resolveIdentities(ctx, []uuid.UUID{userID, counterpartID})
	if err != nil {
		return nil, err
	}

	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		out = append(out, toMessageDTO(m, identities[m.SenderID], identities[m.RecipientID]))
	}
	return out, nil
}

func (s *service) MarkRead(ctx context.Context, userID, counterpartID uuid.UUID) (*MarkReadResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	if counterpartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counterpart required")
	}

	updated, err := s.messages.MarkRead(ctx, counterpartID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}

	if s.logg != nil && updated > 0 {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"counterpart_id": counterpartID.String(),
			"updated":        updated,
		})
		s.logg.Info(logCtx, "messages.mark_read.success")
	}

	return &MarkReadResult{Updated: updated}, nil
}

func (s *service) ListUsers(ctx context.Context, userID uuid.UUID) ([]users.UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	rows, err := s.users.ListOthers(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return users.ToDTOs(rows), nil
}

func (s *service) resolveIdentities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.UserDTO, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	rows, err := s.users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve users")
	}

	out := make(map[uuid.UUID]users.UserDTO, len(rows))
	for i := range rows {
		out[rows[i].ID] = users.ToDTO(&rows[i])
	}
	return out, nil
}
