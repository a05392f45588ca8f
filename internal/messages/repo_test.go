package messages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
)

func setupMessagesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, first string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Email:        first + "@example.com",
		PasswordHash: "x",
		FirstName:    first,
		LastName:     "Tester",
		Role:         enums.UserRoleCustomer,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func insertMessage(t *testing.T, db *gorm.DB, sender, recipient uuid.UUID, content string, read bool, at time.Time) models.Message {
	t.Helper()
	msg := models.Message{
		ID:          uuid.New(),
		SenderID:    sender,
		RecipientID: recipient,
		Content:     content,
		Read:        read,
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(&msg).Error)
	return msg
}

func TestRepository_ListForUserDescending(t *testing.T) {
	db := setupMessagesTestDB(t)
	repo := NewRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	base := time.Now().UTC().Add(-time.Hour)

	insertMessage(t, db, alice.ID, bob.ID, "oldest", false, base)
	insertMessage(t, db, bob.ID, alice.ID, "newest", false, base.Add(2*time.Minute))
	insertMessage(t, db, carol.ID, bob.ID, "unrelated", false, base.Add(time.Minute))

	rows, err := repo.ListForUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "newest", rows[0].Content)
	require.Equal(t, "oldest", rows[1].Content)
}

func TestRepository_ListBetweenAscendingBothDirections(t *testing.T) {
	db := setupMessagesTestDB(t)
	repo := NewRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	base := time.Now().UTC().Add(-time.Hour)

	insertMessage(t, db, alice.ID, bob.ID, "a-to-b", false, base)
	insertMessage(t, db, bob.ID, alice.ID, "b-to-a", false, base.Add(time.Minute))
	insertMessage(t, db, alice.ID, carol.ID, "a-to-c", false, base.Add(30*time.Second))

	rows, err := repo.ListBetween(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "a-to-b", rows[0].Content)
	require.Equal(t, "b-to-a", rows[1].Content)
}

func TestRepository_MarkReadCountsAndIsIdempotent(t *testing.T) {
	db := setupMessagesTestDB(t)
	repo := NewRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	base := time.Now().UTC().Add(-time.Hour)

	insertMessage(t, db, bob.ID, alice.ID, "one", false, base)
	insertMessage(t, db, bob.ID, alice.ID, "two", false, base.Add(time.Minute))
	// Already-read and reverse-direction rows stay untouched.
	insertMessage(t, db, bob.ID, alice.ID, "seen", true, base.Add(2*time.Minute))
	insertMessage(t, db, alice.ID, bob.ID, "outbound", false, base.Add(3*time.Minute))

	updated, err := repo.MarkRead(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, updated)

	again, err := repo.MarkRead(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, again)

	var outbound models.Message
	require.NoError(t, db.Where("content = ?", "outbound").First(&outbound).Error)
	require.False(t, outbound.Read)
}
