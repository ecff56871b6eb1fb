// Package formdb contains form definition CRUD functionality.
package formdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for form database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (formbus.Storer, error) {
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

// Create inserts a new form into the database.
func (s *Store) Create(ctx context.Context, frm formbus.Form) error {
	const q = `
	INSERT INTO "public"."forms"
		(form_id, simple_id, title, description, elems, can_use_form, data_default_privileges, created_at, updated_at)
	VALUES
		(:form_id, :simple_id, :title, :description, :elems, :can_use_form, :data_default_privileges, :created_at, :updated_at)`

	dbFrm, err := toDBForm(frm)
	if err != nil {
		return fmt.Errorf("todbform: %w", err)
	}

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, dbFrm); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			return fmt.Errorf("namedexeccontext: %w", formbus.ErrUniqueSimpleID)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a form in the database.
func (s *Store) Update(ctx context.Context, frm formbus.Form) error {
	const q = `
	UPDATE
		"public"."forms"
	SET
		title = :title,
		description = :description,
		elems = :elems,
		can_use_form = :can_use_form,
		data_default_privileges = :data_default_privileges,
		updated_at = :updated_at
	WHERE
		form_id = :form_id`

	dbFrm, err := toDBForm(frm)
	if err != nil {
		return fmt.Errorf("todbform: %w", err)
	}

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, dbFrm); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a form from the database.
func (s *Store) Delete(ctx context.Context, frm formbus.Form) error {
	const q = `
	DELETE FROM
		"public"."forms"
	WHERE
		form_id = :form_id`

	data := struct {
		ID uuid.UUID `db:"form_id"`
	}{
		ID: frm.ID,
	}

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified form from the database.
func (s *Store) QueryByID(ctx context.Context, formID uuid.UUID) (formbus.Form, error) {
	data := struct {
		ID string `db:"form_id"`
	}{
		ID: formID.String(),
	}

	const q = `
	SELECT
		form_id, simple_id, title, description, elems, can_use_form, data_default_privileges, created_at, updated_at
	FROM
		"public"."forms"
	WHERE
		form_id = :form_id`

	var dbFrm formDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbFrm); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return formbus.Form{}, fmt.Errorf("db: %w", formbus.ErrNotFound)
		}
		return formbus.Form{}, fmt.Errorf("db: %w", err)
	}

	return toBusForm(dbFrm)
}

// QueryBySimpleID gets the form mounted at the given simple id.
func (s *Store) QueryBySimpleID(ctx context.Context, simpleID simpleid.SimpleID) (formbus.Form, error) {
	data := struct {
		SimpleID string `db:"simple_id"`
	}{
		SimpleID: simpleID.String(),
	}

	const q = `
	SELECT
		form_id, simple_id, title, description, elems, can_use_form, data_default_privileges, created_at, updated_at
	FROM
		"public"."forms"
	WHERE
		simple_id = :simple_id`

	var dbFrm formDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbFrm); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return formbus.Form{}, fmt.Errorf("db: %w", formbus.ErrNotFound)
		}
		return formbus.Form{}, fmt.Errorf("db: %w", err)
	}

	return toBusForm(dbFrm)
}
