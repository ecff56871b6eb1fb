package formbus

import (
	"time"

	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/business/types/valuetype"
	"github.com/google/uuid"
)

// Elem describes one field of a form. The json tags double as the storage
// shape since elems are persisted as a jsonb document.
type Elem struct {
	ElemID           string              `json:"elemId"`
	OrderNr          int                 `json:"orderNr"`
	ValueType        valuetype.ValueType `json:"valueType"`
	Label            string              `json:"label,omitempty"`
	Required         bool                `json:"required"`
	ValidationRegExp string              `json:"validationRegExp,omitempty"`
	DoNotSave        bool                `json:"doNotSave,omitempty"`
	Privileges       *ElemPrivileges     `json:"privileges,omitempty"`
}

// ElemPrivileges holds the optional per-elem rule overrides. A set override
// merges over the effective document level rule.
type ElemPrivileges struct {
	Read *privilege.Partial `json:"read,omitempty"`
	Edit *privilege.Partial `json:"edit,omitempty"`
}

// DataPrivileges holds the default access rules applied to every data
// document submitted against the form. Documents may override them per key.
type DataPrivileges struct {
	Read   privilege.Rule `json:"read"`
	Create privilege.Rule `json:"create"`
	Edit   privilege.Rule `json:"edit"`
	Delete privilege.Rule `json:"delete"`
}

// Form represents a form definition. Definitions are managed
// administratively and rarely change.
type Form struct {
	ID                    uuid.UUID
	SimpleID              simpleid.SimpleID
	Title                 string
	Description           string
	Elems                 []Elem
	CanUseForm            privilege.Rule
	DataDefaultPrivileges DataPrivileges
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Elem returns the form elem with the given id.
func (f Form) Elem(elemID string) (Elem, bool) {
	for _, elem := range f.Elems {
		if elem.ElemID == elemID {
			return elem, true
		}
	}
	return Elem{}, false
}

// NewForm contains information needed to create a new form.
type NewForm struct {
	SimpleID              simpleid.SimpleID
	Title                 string
	Description           string
	Elems                 []Elem
	CanUseForm            privilege.Rule
	DataDefaultPrivileges DataPrivileges
}

// UpdateForm contains information needed to update a form.
type UpdateForm struct {
	Title                 *string
	Description           *string
	Elems                 *[]Elem
	CanUseForm            *privilege.Rule
	DataDefaultPrivileges *DataPrivileges
}
