package users

import (
	"github.com/google/uuid"

	"github.com/farmtotable/farmtotable-backend/pkg/db/models"
	"github.com/farmtotable/farmtotable-backend/pkg/enums"
)

// UserDTO is the public projection of a user record. It never carries the
// password hash.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Address   string         `json:"address,omitempty"`
	Role      enums.UserRole `json:"role"`
}

// ToDTO projects a user model onto its public shape.
func ToDTO(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Address:   user.Address,
		Role:      user.Role,
	}
}

// ToDTOs projects a slice of user models.
func ToDTOs(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
