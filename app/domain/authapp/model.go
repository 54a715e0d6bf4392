package authapp

import (
	"encoding/json"

	"github.com/dattastudio/studio-api/app/sdk/errs"
)

// Login defines the data needed to sign in.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Decode implements the decoder interface.
func (app *Login) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app Login) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.Newf(errs.InvalidArgument, "validate: %s", err)
	}

	return nil
}

// Token represents the user token when requested.
type Token struct {
	Token string `json:"token"`
}

// Encode implements the encoder interface.
func (app Token) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}
