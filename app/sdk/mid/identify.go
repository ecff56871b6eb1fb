package mid

import (
	"context"
	"net/http"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/web"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
)

// CsrfHeader is the header clients send to prove the request came from a
// page we served, not a cross-site form post.
const CsrfHeader = "x-council-csrf"

// Identify resolves the requester identity for form data access. Identity
// is optional here: a missing or invalid token makes the request signed
// out instead of failing it, because privilege rules decide per document
// what an anonymous requester may see.
func Identify(log *logger.Logger, a *auth.Auth) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			req := privilege.Requester{
				CsrfValid: r.Header.Get(CsrfHeader) == "1",
			}

			if authStr := r.Header.Get("authorization"); authStr != "" {
				claims, err := a.Authenticate(ctx, authStr)
				if err != nil {
					log.Info(ctx, "identify: treating as signed out", "err", err)
					return next(setRequester(ctx, req), r)
				}

				userID, err := uuid.Parse(claims.Subject)
				if err != nil {
					log.Info(ctx, "identify: treating as signed out", "err", err)
					return next(setRequester(ctx, req), r)
				}

				groups := make([]uuid.UUID, 0, len(claims.Groups))
				for _, g := range claims.Groups {
					id, err := uuid.Parse(g)
					if err != nil {
						continue
					}
					groups = append(groups, id)
				}

				req.SignedIn = true
				req.UserID = userID
				req.Groups = groups
				req.Admin = claims.Admin

				ctx = setClaims(ctx, claims)
			}

			return next(setRequester(ctx, req), r)
		}

		return h
	}

	return m
}
