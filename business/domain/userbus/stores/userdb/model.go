package userdb

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/councl/backend/business/domain/userbus"
	"github.com/councl/backend/business/sdk/sqldb/dbarray"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/google/uuid"
)

type userDB struct {
	ID           uuid.UUID      `db:"user_id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash []byte         `db:"password_hash"`
	Groups       dbarray.String `db:"groups"`
	SysAdmin     bool           `db:"sys_admin"`
	Enabled      bool           `db:"enabled"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func toDBUser(bus userbus.User) userDB {
	groups := make(dbarray.String, len(bus.Groups))
	for i, g := range bus.Groups {
		groups[i] = g.String()
	}

	return userDB{
		ID:           bus.ID,
		Username:     bus.Username.String(),
		Email:        bus.Email.Address,
		PasswordHash: bus.PasswordHash,
		Groups:       groups,
		SysAdmin:     bus.SysAdmin,
		Enabled:      bus.Enabled,
		CreatedAt:    bus.CreatedAt.UTC(),
		UpdatedAt:    bus.UpdatedAt.UTC(),
	}
}

func toBusUser(db userDB) (userbus.User, error) {
	username, err := simpleid.Parse(db.Username)
	if err != nil {
		return userbus.User{}, fmt.Errorf("parse username: %w", err)
	}

	groups := make([]uuid.UUID, len(db.Groups))
	for i, g := range db.Groups {
		groups[i], err = uuid.Parse(g)
		if err != nil {
			return userbus.User{}, fmt.Errorf("parse group: %w", err)
		}
	}

	bus := userbus.User{
		ID:           db.ID,
		Username:     username,
		Email:        mail.Address{Address: db.Email},
		PasswordHash: db.PasswordHash,
		Groups:       groups,
		SysAdmin:     db.SysAdmin,
		Enabled:      db.Enabled,
		CreatedAt:    db.CreatedAt.In(time.Local),
		UpdatedAt:    db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}
