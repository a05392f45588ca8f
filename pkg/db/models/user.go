package models

import (
	"time"

	"github.com/farmtotable/farmtotable-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. Emails are stored lowercase
// so lookups never depend on caller casing.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Address      string         `gorm:"column:address"`
	Role         enums.UserRole `gorm:"column:role;not null;default:customer"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
