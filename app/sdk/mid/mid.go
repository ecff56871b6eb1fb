// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/councl/backend/app/sdk/auth"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/sdk/web"
)

func checkIsError(e web.Encoder) error {
	err, hasError := e.(error)
	if hasError {
		return err
	}

	return nil
}

// =============================================================================

type ctxKey int

const (
	claimKey ctxKey = iota + 1
	requesterKey
	trKey
)

func setClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimKey, claims)
}

// GetClaims returns the claims from the context.
func GetClaims(ctx context.Context) auth.Claims {
	v, ok := ctx.Value(claimKey).(auth.Claims)
	if !ok {
		return auth.Claims{}
	}
	return v
}

func setRequester(ctx context.Context, req privilege.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, req)
}

// GetRequester returns the requester identity resolved for this request. A
// request that never ran the Identify middleware counts as signed out.
func GetRequester(ctx context.Context) privilege.Requester {
	v, ok := ctx.Value(requesterKey).(privilege.Requester)
	if !ok {
		return privilege.Requester{}
	}
	return v
}

func setTran(ctx context.Context, tx sqldb.CommitRollbacker) context.Context {
	return context.WithValue(ctx, trKey, tx)
}

// GetTran retrieves the value that can manage a transaction.
func GetTran(ctx context.Context) (sqldb.CommitRollbacker, error) {
	v, ok := ctx.Value(trKey).(sqldb.CommitRollbacker)
	if !ok {
		return nil, errors.New("transaction not found in context")
	}

	return v, nil
}
