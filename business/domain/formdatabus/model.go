package formdatabus

import (
	"time"

	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/valuetype"
	"github.com/google/uuid"
)

// Entry is one submitted value inside a form data document. The json tags
// double as the storage shape since entries are persisted as a jsonb
// document. OrderNr is the authored position; redaction keeps it even when
// earlier entries are dropped.
type Entry struct {
	ElemID     string              `json:"elemId"`
	OrderNr    int                 `json:"orderNr"`
	Value      any                 `json:"value"`
	ValueType  valuetype.ValueType `json:"valueType"`
	Privileges *EntryPrivileges    `json:"privileges,omitempty"`
}

// EntryPrivileges holds an entry's own rule overrides. A set override merges
// over the document's effective rule.
type EntryPrivileges struct {
	Read *privilege.Partial `json:"read,omitempty"`
	Edit *privilege.Partial `json:"edit,omitempty"`
}

// DataPrivileges holds the document level overrides of the owning form's
// default rules.
type DataPrivileges struct {
	Read   *privilege.Partial `json:"read,omitempty"`
	Edit   *privilege.Partial `json:"edit,omitempty"`
	Delete *privilege.Partial `json:"delete,omitempty"`
}

// FormData represents one submitted document. HasElemPrivileges marks
// whether any entry carries its own rule override, so readers know to
// evaluate per entry.
type FormData struct {
	ID                uuid.UUID
	FormID            uuid.UUID
	Entries           []Entry
	Privileges        *DataPrivileges
	HasElemPrivileges bool
	CreatedBy         uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReadPartial returns the document's read override, if any.
func (fd FormData) ReadPartial() *privilege.Partial {
	if fd.Privileges == nil {
		return nil
	}
	return fd.Privileges.Read
}

// EditPartial returns the document's edit override, if any.
func (fd FormData) EditPartial() *privilege.Partial {
	if fd.Privileges == nil {
		return nil
	}
	return fd.Privileges.Edit
}

// DeletePartial returns the document's delete override, if any.
func (fd FormData) DeletePartial() *privilege.Partial {
	if fd.Privileges == nil {
		return nil
	}
	return fd.Privileges.Delete
}

// NewValue is one raw value of a submission, matched to the form's elems by
// elem id.
type NewValue struct {
	ElemID string
	Value  any
}

// ReadEntry is one entry of a redacted read result. Denied entries are
// omitted entirely from results, never masked.
type ReadEntry struct {
	ElemID    string
	OrderNr   int
	Value     any
	ValueType valuetype.ValueType
}

// ReadResult is the outcome of a bulk or multi id read. Total counts every
// document the requester is eligible to read, not just the returned page.
type ReadResult struct {
	Docs   [][]ReadEntry
	Total  int
	Offset int
	Limit  int
}
