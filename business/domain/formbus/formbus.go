// Package formbus provides business access to form definitions.
package formbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/foundation/otel"
	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("form not found")
	ErrUniqueSimpleID = errors.New("form id is taken")
)

// Storer defines the behavior required by the formbus to interact with
// storage.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, frm Form) error
	Update(ctx context.Context, frm Form) error
	Delete(ctx context.Context, frm Form) error
	QueryByID(ctx context.Context, formID uuid.UUID) (Form, error)
	QueryBySimpleID(ctx context.Context, simpleID simpleid.SimpleID) (Form, error)
}

// Core manages the set of APIs for form access.
type Core struct {
	storer Storer
}

// NewCore constructs a core for form api access.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return NewCore(storer), nil
}

// Create adds a new form to the system.
func (c *Core) Create(ctx context.Context, nf NewForm) (Form, error) {
	ctx, span := otel.AddSpan(ctx, "business.formbus.create")
	defer span.End()

	now := time.Now()

	frm := Form{
		ID:                    uuid.New(),
		SimpleID:              nf.SimpleID,
		Title:                 nf.Title,
		Description:           nf.Description,
		Elems:                 nf.Elems,
		CanUseForm:            nf.CanUseForm,
		DataDefaultPrivileges: nf.DataDefaultPrivileges,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := c.storer.Create(ctx, frm); err != nil {
		return Form{}, fmt.Errorf("create: %w", err)
	}

	return frm, nil
}

// Update modifies an existing form. Privilege rules may change at any time
// independently of the data they protect; readers always evaluate the
// current rules.
func (c *Core) Update(ctx context.Context, frm Form, uf UpdateForm) (Form, error) {
	ctx, span := otel.AddSpan(ctx, "business.formbus.update")
	defer span.End()

	if uf.Title != nil {
		frm.Title = *uf.Title
	}

	if uf.Description != nil {
		frm.Description = *uf.Description
	}

	if uf.Elems != nil {
		frm.Elems = *uf.Elems
	}

	if uf.CanUseForm != nil {
		frm.CanUseForm = *uf.CanUseForm
	}

	if uf.DataDefaultPrivileges != nil {
		frm.DataDefaultPrivileges = *uf.DataDefaultPrivileges
	}

	frm.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, frm); err != nil {
		return Form{}, fmt.Errorf("update: %w", err)
	}

	return frm, nil
}

// Delete removes a form from the system.
func (c *Core) Delete(ctx context.Context, frm Form) error {
	ctx, span := otel.AddSpan(ctx, "business.formbus.delete")
	defer span.End()

	if err := c.storer.Delete(ctx, frm); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// QueryByID finds the form by the specified ID.
func (c *Core) QueryByID(ctx context.Context, formID uuid.UUID) (Form, error) {
	ctx, span := otel.AddSpan(ctx, "business.formbus.queryByID")
	defer span.End()

	frm, err := c.storer.QueryByID(ctx, formID)
	if err != nil {
		return Form{}, fmt.Errorf("query: formID[%s]: %w", formID, err)
	}

	return frm, nil
}

// QueryBySimpleID finds the form mounted at the given simple id.
func (c *Core) QueryBySimpleID(ctx context.Context, simpleID simpleid.SimpleID) (Form, error) {
	ctx, span := otel.AddSpan(ctx, "business.formbus.queryBySimpleID")
	defer span.End()

	frm, err := c.storer.QueryBySimpleID(ctx, simpleID)
	if err != nil {
		return Form{}, fmt.Errorf("query: simpleID[%s]: %w", simpleID, err)
	}

	return frm, nil
}
