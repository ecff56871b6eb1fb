package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/app/sdk/errs"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/web"
	"github.com/google/uuid"
)

// Authenticate validates the JWT in the Authorization header. Unlike
// Identify this middleware requires identity; use it on routes that make no
// sense anonymously, like form administration.
func Authenticate(a *auth.Auth) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			authStr := r.Header.Get("authorization")
			if authStr == "" {
				return errs.New(errs.Unauthenticated, errors.New("missing authorization header"))
			}

			claims, err := a.Authenticate(ctx, authStr)
			if err != nil {
				return errs.New(errs.Unauthenticated, err)
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return errs.New(errs.Unauthenticated, err)
			}

			groups := make([]uuid.UUID, 0, len(claims.Groups))
			for _, g := range claims.Groups {
				id, err := uuid.Parse(g)
				if err != nil {
					continue
				}
				groups = append(groups, id)
			}

			req := privilege.Requester{
				SignedIn:  true,
				UserID:    userID,
				Groups:    groups,
				Admin:     claims.Admin,
				CsrfValid: r.Header.Get(CsrfHeader) == "1",
			}

			ctx = setClaims(ctx, claims)
			ctx = setRequester(ctx, req)

			return next(ctx, r)
		}

		return h
	}

	return m
}

// AuthorizeAdmin allows the request through only when the authenticated
// user carries the system admin flag.
func AuthorizeAdmin() web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			req := GetRequester(ctx)
			if !req.Admin {
				return errs.New(errs.PermissionDenied, errors.New("not authorized for this action"))
			}

			return next(ctx, r)
		}

		return h
	}

	return m
}
