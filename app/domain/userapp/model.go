package userapp

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/userbus"
	"github.com/dattastudio/studio-api/business/types/name"
	"github.com/dattastudio/studio-api/business/types/password"
	"github.com/dattastudio/studio-api/business/types/role"
)

// User represents information about an individual user.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Company   string `json:"company,omitempty"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Encode implements the encoder interface.
func (app User) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppUser(bus userbus.User) User {
	return User{
		ID:        bus.ID.String(),
		Name:      bus.Name.String(),
		Email:     bus.Email.Address,
		Role:      bus.Role.String(),
		Company:   bus.Company.String(),
		Enabled:   bus.Enabled,
		CreatedAt: bus.CreatedAt.Format(time.RFC3339),
		UpdatedAt: bus.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppUsers(users []userbus.User) []User {
	app := make([]User, len(users))
	for i, usr := range users {
		app[i] = toAppUser(usr)
	}

	return app
}

// NewUser defines the data needed to add a new user.
type NewUser struct {
	Name     string `json:"name" validate:"required,min=3,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Company  string `json:"company"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Decode implements the decoder interface.
func (app *NewUser) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewUser) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

func toBusNewUser(app NewUser) (userbus.NewUser, error) {
	nme, err := name.Parse(app.Name)
	if err != nil {
		return userbus.NewUser{}, fmt.Errorf("parse name: %w", err)
	}

	addr, err := mail.ParseAddress(app.Email)
	if err != nil {
		return userbus.NewUser{}, fmt.Errorf("parse email: %w", err)
	}

	rl, err := role.Parse(app.Role)
	if err != nil {
		return userbus.NewUser{}, fmt.Errorf("parse role: %w", err)
	}

	company, err := name.ParseNull(app.Company)
	if err != nil {
		return userbus.NewUser{}, fmt.Errorf("parse company: %w", err)
	}

	pwd, err := password.Parse(app.Password)
	if err != nil {
		return userbus.NewUser{}, fmt.Errorf("parse password: %w", err)
	}

	bus := userbus.NewUser{
		Name:     nme,
		Email:    *addr,
		Role:     rl,
		Company:  company,
		Password: pwd,
	}

	return bus, nil
}

// UpdateUser defines the data needed to update a user.
type UpdateUser struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=60"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role"`
	Company  *string `json:"company"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Enabled  *bool   `json:"enabled"`
}

// Decode implements the decoder interface.
func (app *UpdateUser) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateUser) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

func toBusUpdateUser(app UpdateUser) (userbus.UpdateUser, error) {
	var bus userbus.UpdateUser

	if app.Name != nil {
		nme, err := name.Parse(*app.Name)
		if err != nil {
			return userbus.UpdateUser{}, fmt.Errorf("parse name: %w", err)
		}
		bus.Name = &nme
	}

	if app.Email != nil {
		addr, err := mail.ParseAddress(*app.Email)
		if err != nil {
			return userbus.UpdateUser{}, fmt.Errorf("parse email: %w", err)
		}
		bus.Email = addr
	}

	if app.Role != nil {
		rl, err := role.Parse(*app.Role)
		if err != nil {
			return userbus.UpdateUser{}, fmt.Errorf("parse role: %w", err)
		}
		bus.Role = &rl
	}

	if app.Company != nil {
		company, err := name.ParseNull(*app.Company)
		if err != nil {
			return userbus.UpdateUser{}, fmt.Errorf("parse company: %w", err)
		}
		bus.Company = &company
	}

	if app.Password != nil {
		pwd, err := password.Parse(*app.Password)
		if err != nil {
			return userbus.UpdateUser{}, fmt.Errorf("parse password: %w", err)
		}
		bus.Password = &pwd
	}

	bus.Enabled = app.Enabled

	return bus, nil
}
