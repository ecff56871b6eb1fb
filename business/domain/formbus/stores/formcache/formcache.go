// Package formcache contains form definition access with caching. Form
// definitions change rarely but are read on every form data request.
package formcache

import (
	"context"
	"time"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for form data and caching.
type Store struct {
	log    *logger.Logger
	storer formbus.Storer
	cache  *sturdyc.Client[formbus.Form]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer formbus.Storer, ttl time.Duration) *Store {
	const capacity = 1000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[formbus.Form](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (formbus.Storer, error) {
	return s.storer.NewWithTx(tx)
}

// Create inserts a new form into the database.
func (s *Store) Create(ctx context.Context, frm formbus.Form) error {
	if err := s.storer.Create(ctx, frm); err != nil {
		return err
	}

	s.writeCache(frm)

	return nil
}

// Update replaces a form in the database. The cache is refreshed so rule
// edits take effect on the next read.
func (s *Store) Update(ctx context.Context, frm formbus.Form) error {
	if err := s.storer.Update(ctx, frm); err != nil {
		return err
	}

	s.writeCache(frm)

	return nil
}

// Delete removes a form from the database.
func (s *Store) Delete(ctx context.Context, frm formbus.Form) error {
	if err := s.storer.Delete(ctx, frm); err != nil {
		return err
	}

	s.cache.Delete(frm.ID.String())
	s.cache.Delete(frm.SimpleID.String())

	return nil
}

// QueryByID gets the specified form from the cache or falls through to the
// database.
func (s *Store) QueryByID(ctx context.Context, formID uuid.UUID) (formbus.Form, error) {
	return s.cache.GetOrFetch(ctx, formID.String(), func(ctx context.Context) (formbus.Form, error) {
		frm, err := s.storer.QueryByID(ctx, formID)
		if err != nil {
			return formbus.Form{}, err
		}

		s.cache.Set(frm.SimpleID.String(), frm)

		return frm, nil
	})
}

// QueryBySimpleID gets the form mounted at the given simple id from the
// cache or falls through to the database.
func (s *Store) QueryBySimpleID(ctx context.Context, simpleID simpleid.SimpleID) (formbus.Form, error) {
	return s.cache.GetOrFetch(ctx, simpleID.String(), func(ctx context.Context) (formbus.Form, error) {
		frm, err := s.storer.QueryBySimpleID(ctx, simpleID)
		if err != nil {
			return formbus.Form{}, err
		}

		s.cache.Set(frm.ID.String(), frm)

		return frm, nil
	})
}

func (s *Store) writeCache(frm formbus.Form) {
	s.cache.Set(frm.ID.String(), frm)
	s.cache.Set(frm.SimpleID.String(), frm)
}
