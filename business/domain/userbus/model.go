package userbus

import (
	"net/mail"
	"time"

	"github.com/councl/backend/business/types/simpleid"
	"github.com/google/uuid"
)

// User represents information about an individual user. Groups holds the ids
// of the groups the user belongs to; privilege rules reference these ids.
type User struct {
	ID           uuid.UUID
	Username     simpleid.SimpleID
	Email        mail.Address
	PasswordHash []byte
	Groups       []uuid.UUID
	SysAdmin     bool
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser contains information needed to create a new user.
type NewUser struct {
	Username simpleid.SimpleID
	Email    mail.Address
	Password string
}

// UpdateUser contains information needed to update a user.
type UpdateUser struct {
	Email    *mail.Address
	Password *string
	Groups   *[]uuid.UUID
	SysAdmin *bool
	Enabled  *bool
}
