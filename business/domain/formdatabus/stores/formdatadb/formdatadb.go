// Package formdatadb contains form data CRUD functionality. Read queries
// carry the requester's privilege predicate translated into SQL so filtering
// happens inside the database, not after the fetch.
package formdatadb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/order"
	"github.com/councl/backend/business/sdk/page"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for form data database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (formdatabus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Create inserts a new form data document into the database.
func (s *Store) Create(ctx context.Context, fd formdatabus.FormData) error {
	const q = `
	INSERT INTO "public"."form_data"
		(data_id, form_id, entries, privileges, has_elem_privileges, created_by, created_at, updated_at)
	VALUES
		(:data_id, :form_id, :entries, :privileges, :has_elem_privileges, :created_by, :created_at, :updated_at)`

	dbFd, err := toDBFormData(fd)
	if err != nil {
		return fmt.Errorf("todbformdata: %w", err)
	}

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, dbFd); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a form data document in the database.
func (s *Store) Update(ctx context.Context, fd formdatabus.FormData) error {
	const q = `
	UPDATE
		"public"."form_data"
	SET
		entries = :entries,
		privileges = :privileges,
		has_elem_privileges = :has_elem_privileges,
		updated_at = :updated_at
	WHERE
		data_id = :data_id`

	dbFd, err := toDBFormData(fd)
	if err != nil {
		return fmt.Errorf("todbformdata: %w", err)
	}

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, dbFd); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a form data document from the database.
func (s *Store) Delete(ctx context.Context, fd formdatabus.FormData) error {
	const q = `
	DELETE FROM
		"public"."form_data"
	WHERE
		data_id = :data_id`

	data := struct {
		ID uuid.UUID `db:"data_id"`
	}{
		ID: fd.ID,
	}

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Query retrieves the page of documents matching the filter, the requester's
// read predicate included.
func (s *Store) Query(ctx context.Context, filter formdatabus.QueryFilter, orderBy order.By, pg page.Page) ([]formdatabus.FormData, error) {
	data := map[string]any{
		"offset":        pg.Offset(),
		"rows_per_page": pg.Limit(),
	}

	const q = `
	SELECT
		data_id, form_id, entries, privileges, has_elem_privileges, created_by, created_at, updated_at
	FROM
		"public"."form_data"`

	buf := bytes.NewBufferString(q)
	if err := s.applyFilter(filter, data, buf); err != nil {
		return nil, fmt.Errorf("applyfilter: %w", err)
	}

	orderByClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, err
	}

	buf.WriteString(orderByClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	var dbFds []formDataDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, buf.String(), data, &dbFds); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusFormDatas(dbFds)
}

// Count returns the total number of documents matching the filter,
// independent of paging.
func (s *Store) Count(ctx context.Context, filter formdatabus.QueryFilter) (int, error) {
	data := map[string]any{}

	const q = `
	SELECT
		COUNT(1) AS count
	FROM
		"public"."form_data"`

	buf := bytes.NewBufferString(q)
	if err := s.applyFilter(filter, data, buf); err != nil {
		return 0, fmt.Errorf("applyfilter: %w", err)
	}

	var count struct {
		Count int `db:"count"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, buf.String(), data, &count); err != nil {
		return 0, fmt.Errorf("namedquerystruct: %w", err)
	}

	return count.Count, nil
}

// QueryByID gets the specified document from the database without any
// privilege filtering. Callers evaluate privileges in process.
func (s *Store) QueryByID(ctx context.Context, dataID uuid.UUID) (formdatabus.FormData, error) {
	data := struct {
		ID string `db:"data_id"`
	}{
		ID: dataID.String(),
	}

	const q = `
	SELECT
		data_id, form_id, entries, privileges, has_elem_privileges, created_by, created_at, updated_at
	FROM
		"public"."form_data"
	WHERE
		data_id = :data_id`

	var dbFd formDataDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbFd); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return formdatabus.FormData{}, fmt.Errorf("db: %w", formdatabus.ErrNotFound)
		}
		return formdatabus.FormData{}, fmt.Errorf("db: %w", err)
	}

	return toBusFormData(dbFd)
}

func orderByClause(orderBy order.By) (string, error) {
	byFields := map[string]string{
		formdatabus.OrderByID:        "data_id",
		formdatabus.OrderByCreatedAt: "created_at",
	}

	by, exists := byFields[orderBy.Field]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Field)
	}

	return " ORDER BY " + by + " " + orderBy.Direction, nil
}
