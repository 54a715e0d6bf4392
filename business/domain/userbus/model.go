package userbus

import (
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/password"
	"github.com/dattastudio/studio-api/business/types/role"
	"github.com/google/uuid"
)

// User represents a dashboard account that owns datasets.
type User struct {
	ID           uuid.UUID
	Name         name.Name
	Email        mail.Address
	Role         role.Role
	PasswordHash []byte
	Company      name.Null
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser contains information needed to create a new user.
type NewUser struct {
	Name     name.Name
	Email    mail.Address
	Role     role.Role
	Company  name.Null
	Password password.Password
}

// UpdateUser contains information needed to update a user.
type UpdateUser struct {
	Name     *name.Name
	Email    *mail.Address
	Role     *role.Role
	Company  *name.Null
	Password *password.Password
	Enabled  *bool
}
