// Package formdatabus provides business access to form submissions. Every
// read and write runs through the privilege rules of the owning form, and
// read results are redacted per entry rather than failing the request.
package formdatabus

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/order"
	"github.com/councl/backend/business/sdk/page"
	"github.com/councl/backend/business/sdk/predicate"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/foundation/logger"
	"github.com/councl/backend/foundation/otel"
	"github.com/google/uuid"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound     = errors.New("form data not found")
	ErrAccessDenied = errors.New("access denied")
)

// ValueError reports a submitted value that the owning form rejects. The
// elem id travels with the message so the caller can point at the exact
// input.
type ValueError struct {
	ElemID  string
	Message string
}

// Error implements the error interface.
func (ve *ValueError) Error() string {
	return fmt.Sprintf("elem[%s]: %s", ve.ElemID, ve.Message)
}

// GetValueError extracts a ValueError from err, if one is wrapped inside.
func GetValueError(err error) (*ValueError, bool) {
	var ve *ValueError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Storer interface declares the behavior this package needs to persist and
// retrieve data. Query and Count must honor QueryFilter.Eligible.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, fd FormData) error
	Update(ctx context.Context, fd FormData) error
	Delete(ctx context.Context, fd FormData) error
	Query(ctx context.Context, filter QueryFilter, orderBy order.By, pg page.Page) ([]FormData, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	QueryByID(ctx context.Context, dataID uuid.UUID) (FormData, error)
}

// Core manages the set of APIs for form data access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a form data core API for use.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		log:    log,
		storer: storer,
	}
}

// NewWithTx constructs a new business value that will use the specified
// transaction in any store related calls.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	core := Core{
		log:    c.log,
		storer: storer,
	}

	return &core, nil
}

// Submit validates a set of raw values against the form and stores them as
// a new document. The form's default create rule decides whether the
// requester may submit at all.
func (c *Core) Submit(ctx context.Context, frm formbus.Form, req privilege.Requester, values []NewValue) (FormData, error) {
	ctx, span := otel.AddSpan(ctx, "business.formdatabus.submit")
	defer span.End()

	if denial := privilege.Check(frm.DataDefaultPrivileges.Create, req); denial != nil {
		return FormData{}, fmt.Errorf("submit form[%s]: %w", frm.ID, ErrAccessDenied)
	}

	entries, hasElemPrivs, err := buildEntries(frm, values)
	if err != nil {
		return FormData{}, err
	}

	now := time.Now()

	fd := FormData{
		ID:                uuid.New(),
		FormID:            frm.ID,
		Entries:           entries,
		HasElemPrivileges: hasElemPrivs,
		CreatedBy:         req.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := c.storer.Create(ctx, fd); err != nil {
		return FormData{}, fmt.Errorf("create: %w", err)
	}

	return fd, nil
}

// Update replaces the given values on an existing document. The effective
// edit rule, the form default merged with the document and entry overrides,
// decides field by field whether the change is allowed.
func (c *Core) Update(ctx context.Context, frm formbus.Form, req privilege.Requester, dataID uuid.UUID, values []NewValue) (FormData, error) {
	ctx, span := otel.AddSpan(ctx, "business.formdatabus.update")
	defer span.End()

	fd, err := c.storer.QueryByID(ctx, dataID)
	if err != nil {
		return FormData{}, fmt.Errorf("querybyid[%s]: %w", dataID, err)
	}

	if fd.FormID != frm.ID {
		return FormData{}, fmt.Errorf("update data[%s]: %w", dataID, ErrNotFound)
	}

	editRule := privilege.Merge(frm.DataDefaultPrivileges.Edit, fd.EditPartial())
	if denial := privilege.Check(editRule, req); denial != nil {
		return FormData{}, fmt.Errorf("update data[%s]: %w", fd.ID, ErrAccessDenied)
	}

	for _, v := range values {
		elem, ok := frm.Elem(v.ElemID)
		if !ok {
			return FormData{}, &ValueError{ElemID: v.ElemID, Message: "elem does not exist on this form"}
		}

		if err := validateValue(elem, v.Value); err != nil {
			return FormData{}, err
		}

		var found bool
		for i := range fd.Entries {
			ent := &fd.Entries[i]
			if ent.ElemID != v.ElemID {
				continue
			}

			rule := editRule
			if fd.HasElemPrivileges && ent.Privileges != nil && ent.Privileges.Edit != nil {
				rule = privilege.Merge(editRule, ent.Privileges.Edit)
			}
			if denial := privilege.Check(rule, req); denial != nil {
				return FormData{}, &ValueError{ElemID: v.ElemID, Message: "not allowed to edit this elem"}
			}

			ent.Value = v.Value
			found = true
			break
		}

		if !found {
			if elem.DoNotSave {
				continue
			}

			ent := Entry{
				ElemID:    elem.ElemID,
				OrderNr:   elem.OrderNr,
				Value:     v.Value,
				ValueType: elem.ValueType,
			}
			if elem.Privileges != nil {
				ent.Privileges = &EntryPrivileges{
					Read: elem.Privileges.Read,
					Edit: elem.Privileges.Edit,
				}
				fd.HasElemPrivileges = true
			}
			fd.Entries = append(fd.Entries, ent)
		}
	}

	fd.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, fd); err != nil {
		return FormData{}, fmt.Errorf("update: %w", err)
	}

	return fd, nil
}

// Delete removes the specified document if the effective delete rule allows
// the requester to.
func (c *Core) Delete(ctx context.Context, frm formbus.Form, req privilege.Requester, dataID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.formdatabus.delete")
	defer span.End()

	fd, err := c.storer.QueryByID(ctx, dataID)
	if err != nil {
		return fmt.Errorf("querybyid[%s]: %w", dataID, err)
	}

	if fd.FormID != frm.ID {
		return fmt.Errorf("delete data[%s]: %w", dataID, ErrNotFound)
	}

	rule := privilege.Merge(frm.DataDefaultPrivileges.Delete, fd.DeletePartial())
	if denial := privilege.Check(rule, req); denial != nil {
		return fmt.Errorf("delete data[%s]: %w", fd.ID, ErrAccessDenied)
	}

	if err := c.storer.Delete(ctx, fd); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Query retrieves the documents of a form the requester is allowed to read.
// An empty dataIDs selects every eligible document of the form. The store
// filters on the requester's read predicate, then every returned document
// is redacted per entry. Total counts every eligible document, not just the
// returned page.
func (c *Core) Query(ctx context.Context, frm formbus.Form, req privilege.Requester, dataIDs []uuid.UUID, orderBy order.By, pg page.Page) (ReadResult, error) {
	ctx, span := otel.AddSpan(ctx, "business.formdatabus.query")
	defer span.End()

	filter := QueryFilter{
		FormID:      frm.ID,
		DataIDs:     dataIDs,
		Read:        readConds(req),
		DefaultRead: frm.DataDefaultPrivileges.Read,
	}

	fds, err := c.storer.Query(ctx, filter, orderBy, pg)
	if err != nil {
		return ReadResult{}, fmt.Errorf("query: %w", err)
	}

	total, err := c.storer.Count(ctx, filter)
	if err != nil {
		return ReadResult{}, fmt.Errorf("count: %w", err)
	}

	docs := make([][]ReadEntry, 0, len(fds))
	for _, fd := range fds {
		main := privilege.Merge(frm.DataDefaultPrivileges.Read, fd.ReadPartial())
		entries := readableEntries(fd, main, req)
		if len(entries) == 0 {
			continue
		}
		docs = append(docs, entries)
	}

	return ReadResult{
		Docs:   docs,
		Total:  total,
		Offset: pg.Offset(),
		Limit:  pg.Limit(),
	}, nil
}

// QueryByID retrieves a single document by id and evaluates its privileges
// in process. A document the requester may not read at all comes back as
// ErrNotFound so absence and denial are indistinguishable.
func (c *Core) QueryByID(ctx context.Context, frm formbus.Form, req privilege.Requester, dataID uuid.UUID) ([]ReadEntry, error) {
	ctx, span := otel.AddSpan(ctx, "business.formdatabus.querybyid")
	defer span.End()

	fd, err := c.storer.QueryByID(ctx, dataID)
	if err != nil {
		return nil, fmt.Errorf("querybyid[%s]: %w", dataID, err)
	}

	if fd.FormID != frm.ID {
		return nil, fmt.Errorf("querybyid[%s]: %w", dataID, ErrNotFound)
	}

	main := privilege.Merge(frm.DataDefaultPrivileges.Read, fd.ReadPartial())
	entries := readableEntries(fd, main, req)
	if len(entries) == 0 {
		return nil, fmt.Errorf("querybyid[%s]: %w", dataID, ErrNotFound)
	}

	return entries, nil
}

// readConds selects the read predicate for the requester's session state.
func readConds(req privilege.Requester) []predicate.Cond {
	if req.SignedIn {
		return privilege.ReadFilterSignedIn(req)
	}
	return privilege.ReadFilterSignedOut(req.CsrfValid)
}

// buildEntries validates raw values against the form definition and shapes
// them into stored entries. Elems marked do-not-save are validated but
// never persisted.
func buildEntries(frm formbus.Form, values []NewValue) ([]Entry, bool, error) {
	byElem := make(map[string]NewValue, len(values))
	for _, v := range values {
		if _, ok := frm.Elem(v.ElemID); !ok {
			return nil, false, &ValueError{ElemID: v.ElemID, Message: "elem does not exist on this form"}
		}
		byElem[v.ElemID] = v
	}

	var entries []Entry
	var hasElemPrivs bool

	for _, elem := range frm.Elems {
		v, ok := byElem[elem.ElemID]
		if !ok || isEmptyValue(v.Value) {
			if elem.Required {
				return nil, false, &ValueError{ElemID: elem.ElemID, Message: "a value is required"}
			}
			continue
		}

		if err := validateValue(elem, v.Value); err != nil {
			return nil, false, err
		}

		if elem.DoNotSave {
			continue
		}

		ent := Entry{
			ElemID:    elem.ElemID,
			OrderNr:   elem.OrderNr,
			Value:     v.Value,
			ValueType: elem.ValueType,
		}

		if elem.Privileges != nil {
			ent.Privileges = &EntryPrivileges{
				Read: elem.Privileges.Read,
				Edit: elem.Privileges.Edit,
			}
			hasElemPrivs = true
		}

		entries = append(entries, ent)
	}

	return entries, hasElemPrivs, nil
}

// validateValue checks a single raw value against its elem's type and
// validation pattern.
func validateValue(elem formbus.Elem, value any) error {
	if !elem.ValueType.Accepts(value) {
		return &ValueError{ElemID: elem.ElemID, Message: fmt.Sprintf("value is not a valid %s", elem.ValueType)}
	}

	if elem.ValidationRegExp != "" {
		s, ok := value.(string)
		if ok {
			re, err := regexp.Compile(elem.ValidationRegExp)
			if err != nil {
				return fmt.Errorf("elem[%s]: invalid validation pattern: %w", elem.ElemID, err)
			}
			if !re.MatchString(s) {
				return &ValueError{ElemID: elem.ElemID, Message: "value does not match the required pattern"}
			}
		}
	}

	return nil
}

// isEmptyValue reports whether a submitted value counts as absent for
// required checks.
func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	return false
}
