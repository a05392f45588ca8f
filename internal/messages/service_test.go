package messages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
)

type fakeMessageRepo struct {
	rows []models.Message
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.Message) error {
	message.CreatedAt = time.Now()
	f.rows = append(f.rows, *message)
	return nil
}

func (f *fakeMessageRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.rows {
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
	}
	sortDescending(out)
	return out, nil
}

func (f *fakeMessageRepo) ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.rows {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			out = append(out, m)
		}
	}
	sortAscending(out)
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error) {
	var updated int64
	for i := range f.rows {
		m := &f.rows[i]
		if m.SenderID == senderID && m.RecipientID == recipientID && !m.Read {
			m.Read = true
			updated++
		}
	}
	return updated, nil
}

func sortAscending(rows []models.Message) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].CreatedAt.Before(rows[j-1].CreatedAt); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

func sortDescending(rows []models.Message) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].CreatedAt.After(rows[j-1].CreatedAt); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := u
	return &copy, nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListOthers(ctx context.Context, excludeID uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.ID != excludeID {
			out = append(out, u)
		}
	}
	return out, nil
}

func newTestUser(first string) models.User {
	return models.User{
		ID:        uuid.New(),
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  "Tester",
		Role:      enums.UserRoleCustomer,
	}
}

func newTestService(t *testing.T, msgRepo *fakeMessageRepo, userRepo *fakeUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Messages: msgRepo, Users: userRepo})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func seedMessage(repo *fakeMessageRepo, sender, recipient uuid.UUID, content string, read bool, at time.Time) {
	repo.rows = append(repo.rows, models.Message{
		ID:          uuid.New(),
		SenderID:    sender,
		RecipientID: recipient,
		Content:     content,
		Read:        read,
		CreatedAt:   at,
	})
}

func TestService_ListConversationsGroupsByCounterpart(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	carol := newTestUser("carol")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{
		alice.ID: alice, bob.ID: bob, carol.ID: carol,
	}}
	msgRepo := &fakeMessageRepo{}
	base := time.Now().Add(-time.Hour)

	seedMessage(msgRepo, bob.ID, alice.ID, "hi", false, base)
	seedMessage(msgRepo, alice.ID, bob.ID, "hello", true, base.Add(time.Minute))
	seedMessage(msgRepo, bob.ID, alice.ID, "fresh kale?", false, base.Add(2*time.Minute))
	seedMessage(msgRepo, carol.ID, alice.ID, "hey", false, base.Add(30*time.Second))

	svc := newTestService(t, msgRepo, userRepo)
	conversations, err := svc.ListConversations(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}

	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}

	// Newest exchange first.
	if conversations[0].User.ID != bob.ID {
		t.Fatalf("expected bob first, got %s", conversations[0].User.FirstName)
	}
	if conversations[1].User.ID != carol.ID {
		t.Fatalf("expected carol second, got %s", conversations[1].User.FirstName)
	}

	if conversations[0].LastMessage.Content != "fresh kale?" {
		t.Fatalf("unexpected last message %q", conversations[0].LastMessage.Content)
	}
	if conversations[0].UnreadCount != 2 {
		t.Fatalf("expected 2 unread from bob, got %d", conversations[0].UnreadCount)
	}
	if conversations[1].UnreadCount != 1 {
		t.Fatalf("expected 1 unread from carol, got %d", conversations[1].UnreadCount)
	}
}

func TestService_ListConversationsSkipsOwnUnread(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice, bob.ID: bob}}
	msgRepo := &fakeMessageRepo{}

	// Alice's own unread outbound messages never count against her.
	seedMessage(msgRepo, alice.ID, bob.ID, "ping", false, time.Now())

	svc := newTestService(t, msgRepo, userRepo)
	conversations, err := svc.ListConversations(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations))
	}
	if conversations[0].UnreadCount != 0 {
		t.Fatalf("expected 0 unread, got %d", conversations[0].UnreadCount)
	}
}

func TestService_ListConversationsEmpty(t *testing.T) {
	alice := newTestUser("alice")
	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice}}

	svc := newTestService(t, &fakeMessageRepo{}, userRepo)
	conversations, err := svc.ListConversations(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(conversations) != 0 {
		t.Fatalf("expected empty list, got %d", len(conversations))
	}
}

func TestService_GetTranscriptOrderedAscending(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	carol := newTestUser("carol")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{
		alice.ID: alice, bob.ID: bob, carol.ID: carol,
	}}
	msgRepo := &fakeMessageRepo{}
	base := time.Now().Add(-time.Hour)

	seedMessage(msgRepo, bob.ID, alice.ID, "first", true, base)
	seedMessage(msgRepo, alice.ID, bob.ID, "second", false, base.Add(time.Minute))
	// Unrelated pair must never leak into the transcript.
	seedMessage(msgRepo, carol.ID, alice.ID, "other", false, base.Add(30*time.Second))

	svc := newTestService(t, msgRepo, userRepo)
	transcript, err := svc.GetTranscript(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected transcript error: %v", err)
	}

	if len(transcript) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript))
	}
	if transcript[0].Content != "first" || transcript[1].Content != "second" {
		t.Fatalf("transcript out of order: %q, %q", transcript[0].Content, transcript[1].Content)
	}
	if transcript[0].Sender.ID != bob.ID {
		t.Fatalf("expected resolved sender identity, got %s", transcript[0].Sender.ID)
	}
}

func TestService_MarkReadIdempotent(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice, bob.ID: bob}}
	msgRepo := &fakeMessageRepo{}
	base := time.Now().Add(-time.Hour)

	seedMessage(msgRepo, bob.ID, alice.ID, "one", false, base)
	seedMessage(msgRepo, bob.ID, alice.ID, "two", false, base.Add(time.Minute))

	svc := newTestService(t, msgRepo, userRepo)

	first, err := svc.MarkRead(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected mark read error: %v", err)
	}
	if first.Updated != 2 {
		t.Fatalf("expected 2 updated, got %d", first.Updated)
	}

	second, err := svc.MarkRead(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected second mark read error: %v", err)
	}
	if second.Updated != 0 {
		t.Fatalf("expected 0 updated on repeat, got %d", second.Updated)
	}

	conversations, err := svc.ListConversations(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if conversations[0].UnreadCount != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d", conversations[0].UnreadCount)
	}
}

func TestService_SendRejectsEmptyContent(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice, bob.ID: bob}}
	msgRepo := &fakeMessageRepo{}

	svc := newTestService(t, msgRepo, userRepo)
	_, err := svc.Send(context.Background(), alice.ID, SendRequest{RecipientID: bob.ID, Content: "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if len(msgRepo.rows) != 0 {
		t.Fatalf("expected no record created, got %d", len(msgRepo.rows))
	}
}

func TestService_SendResolvesIdentities(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice, bob.ID: bob}}
	msgRepo := &fakeMessageRepo{}

	svc := newTestService(t, msgRepo, userRepo)
	dto, err := svc.Send(context.Background(), alice.ID, SendRequest{RecipientID: bob.ID, Content: "hello"})
	if err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	if dto.Sender.FirstName != "alice" || dto.Recipient.FirstName != "bob" {
		t.Fatalf("identities not resolved: %+v", dto)
	}
	if dto.Read {
		t.Fatal("new messages must start unread")
	}
	if dto.Sender.Email == "" {
		t.Fatal("expected sender display fields")
	}
}

func TestService_SendUnknownRecipient(t *testing.T) {
	alice := newTestUser("alice")
	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice}}
	msgRepo := &fakeMessageRepo{}

	svc := newTestService(t, msgRepo, userRepo)
	_, err := svc.Send(context.Background(), alice.ID, SendRequest{RecipientID: uuid.New(), Content: "hi"})
	if err == nil {
		t.Fatal("expected error for unknown recipient")
	}
}

func TestService_ListUsersExcludesSelf(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")

	userRepo := &fakeUserRepo{users: map[uuid.UUID]models.User{alice.ID: alice, bob.ID: bob}}
	svc := newTestService(t, &fakeMessageRepo{}, userRepo)

	directory, err := svc.ListUsers(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("unexpected list users error: %v", err)
	}
	if len(directory) != 1 || directory[0].ID != bob.ID {
		t.Fatalf("expected only bob, got %+v", directory)
	}
}
