// Package authapp maintains the app layer api for account access.
package authapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/app/sdk/errs"
	"github.com/councl/backend/business/domain/userbus"
	"github.com/councl/backend/business/sdk/web"
	"github.com/councl/backend/business/types/simpleid"
)

type app struct {
	auth      *auth.Auth
	userBus   *userbus.Core
	activeKID string
}

func newApp(ath *auth.Auth, userBus *userbus.Core, activeKID string) *app {
	return &app{
		auth:      ath,
		userBus:   userBus,
		activeKID: activeKID,
	}
}

// login exchanges a username and password for a signed token.
func (a *app) login(ctx context.Context, r *http.Request) web.Encoder {
	var req Login
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	username, err := simpleid.Parse(req.Username)
	if err != nil {
		return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
	}

	usr, err := a.userBus.Authenticate(ctx, username, req.Password)
	if err != nil {
		return errs.New(errs.Unauthenticated, userbus.ErrAuthenticationFailure)
	}

	tokenStr, err := a.auth.GenerateToken(a.activeKID, usr)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	return toAppToken(tokenStr)
}

// signup registers a new account and signs it in.
func (a *app) signup(ctx context.Context, r *http.Request) web.Encoder {
	var req Signup
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	nu, err := toBusNewUser(req)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	usr, err := a.userBus.Create(ctx, nu)
	if err != nil {
		if errors.Is(err, userbus.ErrUniqueUsername) {
			return errs.New(errs.Aborted, userbus.ErrUniqueUsername)
		}
		return errs.Errorf(errs.InternalOnlyLog, "signup: username[%s]: %s", req.Username, err)
	}

	tokenStr, err := a.auth.GenerateToken(a.activeKID, usr)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	return toAppToken(tokenStr)
}
