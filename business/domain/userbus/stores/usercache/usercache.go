// Package usercache contains user related CRUD functionality with caching.
package usercache

import (
	"context"
	"time"

	"github.com/councl/backend/business/domain/userbus"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for user data and caching. Identity lookups
// run on every request, so they come from the cache when possible.
type Store struct {
	log    *logger.Logger
	storer userbus.Storer
	cache  *sturdyc.Client[userbus.User]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer userbus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[userbus.User](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (userbus.Storer, error) {
	return s.storer.NewWithTx(tx)
}

// Create inserts a new user into the database.
func (s *Store) Create(ctx context.Context, usr userbus.User) error {
	if err := s.storer.Create(ctx, usr); err != nil {
		return err
	}

	s.writeCache(usr)

	return nil
}

// Update replaces a user record in the database.
func (s *Store) Update(ctx context.Context, usr userbus.User) error {
	if err := s.storer.Update(ctx, usr); err != nil {
		return err
	}

	s.writeCache(usr)

	return nil
}

// QueryByID gets the specified user from the cache or falls through to
// the database.
func (s *Store) QueryByID(ctx context.Context, userID uuid.UUID) (userbus.User, error) {
	return s.cache.GetOrFetch(ctx, userID.String(), func(ctx context.Context) (userbus.User, error) {
		usr, err := s.storer.QueryByID(ctx, userID)
		if err != nil {
			return userbus.User{}, err
		}

		s.cache.Set(usr.Username.String(), usr)

		return usr, nil
	})
}

// QueryByUsername gets the specified user from the cache or falls through
// to the database.
func (s *Store) QueryByUsername(ctx context.Context, username simpleid.SimpleID) (userbus.User, error) {
	return s.cache.GetOrFetch(ctx, username.String(), func(ctx context.Context) (userbus.User, error) {
		usr, err := s.storer.QueryByUsername(ctx, username)
		if err != nil {
			return userbus.User{}, err
		}

		s.cache.Set(usr.ID.String(), usr)

		return usr, nil
	})
}

// writeCache performs a write through cache for both lookup keys.
func (s *Store) writeCache(usr userbus.User) {
	s.cache.Set(usr.ID.String(), usr)
	s.cache.Set(usr.Username.String(), usr)
}
