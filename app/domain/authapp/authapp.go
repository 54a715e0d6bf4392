// Package authapp maintains the app layer api for dashboard sign in.
package authapp

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/dattastudio/studio-api/app/sdk/auth"
	"github.com/dattastudio/studio-api/app/sdk/errs"
	"github.com/dattastudio/studio-api/business/domain/userbus"
	"github.com/dattastudio/studio-api/business/sdk/web"
	"github.com/dattastudio/studio-api/business/types/role"
)

const tokenTTL = 8 * time.Hour

type app struct {
	auth    *auth.Auth
	userBus *userbus.Core
}

func newApp(ath *auth.Auth, userBus *userbus.Core) *app {
	return &app{
		auth:    ath,
		userBus: userBus,
	}
}

func (a *app) login(ctx context.Context, r *http.Request) web.Encoder {
	var app Login
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	addr, err := mail.ParseAddress(app.Email)
	if err != nil {
		return errs.Newf(errs.InvalidArgument, "parsing email: %s", err)
	}

	usr, err := a.userBus.Authenticate(ctx, *addr, app.Password)
	if err != nil {
		switch {
		case errors.Is(err, userbus.ErrNotFound), errors.Is(err, userbus.ErrAuthenticationFailure):
			return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
		default:
			return errs.Newf(errs.Internal, "authenticate: %s", err)
		}
	}

	if !usr.Enabled {
		return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
	}

	claims := a.auth.NewClaims(usr.ID.String(), []role.Role{usr.Role}, tokenTTL)

	tkn, err := a.auth.GenerateToken(claims)
	if err != nil {
		return errs.Newf(errs.Internal, "generating token: %s", err)
	}

	return Token{Token: tkn}
}
