package formapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/councl/backend/app/sdk/errs"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/business/types/valuetype"
)

// Elem represents one field of a form definition. The privilege rules are
// the wire shape of privilege.Partial, public as one of false, true, or
// onlyPublic and the lists as uuid strings.
type Elem struct {
	ElemID           string                  `json:"elemId" validate:"required"`
	OrderNr          int                     `json:"orderNr"`
	ValueType        string                  `json:"valueType" validate:"required"`
	Label            string                  `json:"label"`
	Required         bool                    `json:"required"`
	ValidationRegExp string                  `json:"validationRegExp"`
	DoNotSave        bool                    `json:"doNotSave"`
	Privileges       *formbus.ElemPrivileges `json:"privileges"`
}

// DataPrivileges represents the default access rules for submitted data.
type DataPrivileges struct {
	Read   privilege.Rule `json:"read"`
	Create privilege.Rule `json:"create"`
	Edit   privilege.Rule `json:"edit"`
	Delete privilege.Rule `json:"delete"`
}

// Form represents a complete form definition as managed by administrators,
// privilege rules included.
type Form struct {
	ID                    string         `json:"id"`
	SimpleID              string         `json:"simpleId"`
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	Elems                 []Elem         `json:"elems"`
	CanUseForm            privilege.Rule `json:"canUseForm"`
	DataDefaultPrivileges DataPrivileges `json:"dataDefaultPrivileges"`
	DateCreated           string         `json:"dateCreated"`
	DateUpdated           string         `json:"dateUpdated"`
}

// Encode implements the web.Encoder interface.
func (app Form) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppForm(bus formbus.Form) Form {
	elems := make([]Elem, len(bus.Elems))
	for i, elem := range bus.Elems {
		elems[i] = Elem{
			ElemID:           elem.ElemID,
			OrderNr:          elem.OrderNr,
			ValueType:        elem.ValueType.String(),
			Label:            elem.Label,
			Required:         elem.Required,
			ValidationRegExp: elem.ValidationRegExp,
			DoNotSave:        elem.DoNotSave,
			Privileges:       elem.Privileges,
		}
	}

	return Form{
		ID:          bus.ID.String(),
		SimpleID:    bus.SimpleID.String(),
		Title:       bus.Title,
		Description: bus.Description,
		Elems:       elems,
		CanUseForm:  bus.CanUseForm,
		DataDefaultPrivileges: DataPrivileges{
			Read:   bus.DataDefaultPrivileges.Read,
			Create: bus.DataDefaultPrivileges.Create,
			Edit:   bus.DataDefaultPrivileges.Edit,
			Delete: bus.DataDefaultPrivileges.Delete,
		},
		DateCreated: bus.CreatedAt.Format(time.RFC3339),
		DateUpdated: bus.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================

// NewForm defines the data needed to add a new form.
type NewForm struct {
	SimpleID              string         `json:"simpleId" validate:"required"`
	Title                 string         `json:"title" validate:"required"`
	Description           string         `json:"description"`
	Elems                 []Elem         `json:"elems" validate:"required,min=1,dive"`
	CanUseForm            privilege.Rule `json:"canUseForm"`
	DataDefaultPrivileges DataPrivileges `json:"dataDefaultPrivileges"`
}

// Decode implements the web.Decoder interface.
func (app *NewForm) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewForm) Validate() error {
	if err := errs.Check(app); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return nil
}

func toBusNewForm(app NewForm) (formbus.NewForm, error) {
	sid, err := simpleid.Parse(app.SimpleID)
	if err != nil {
		return formbus.NewForm{}, fmt.Errorf("parse simpleId: %w", err)
	}

	elems, err := toBusElems(app.Elems)
	if err != nil {
		return formbus.NewForm{}, err
	}

	return formbus.NewForm{
		SimpleID:    sid,
		Title:       app.Title,
		Description: app.Description,
		Elems:       elems,
		CanUseForm:  app.CanUseForm,
		DataDefaultPrivileges: formbus.DataPrivileges{
			Read:   app.DataDefaultPrivileges.Read,
			Create: app.DataDefaultPrivileges.Create,
			Edit:   app.DataDefaultPrivileges.Edit,
			Delete: app.DataDefaultPrivileges.Delete,
		},
	}, nil
}

// =============================================================================

// UpdateForm defines the data that can be updated on a form. The simple id
// is fixed at creation because clients bookmark it.
type UpdateForm struct {
	Title                 *string         `json:"title"`
	Description           *string         `json:"description"`
	Elems                 *[]Elem         `json:"elems" validate:"omitempty,min=1,dive"`
	CanUseForm            *privilege.Rule `json:"canUseForm"`
	DataDefaultPrivileges *DataPrivileges `json:"dataDefaultPrivileges"`
}

// Decode implements the web.Decoder interface.
func (app *UpdateForm) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateForm) Validate() error {
	if err := errs.Check(app); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return nil
}

func toBusUpdateForm(app UpdateForm) (formbus.UpdateForm, error) {
	uf := formbus.UpdateForm{
		Title:       app.Title,
		Description: app.Description,
		CanUseForm:  app.CanUseForm,
	}

	if app.Elems != nil {
		elems, err := toBusElems(*app.Elems)
		if err != nil {
			return formbus.UpdateForm{}, err
		}
		uf.Elems = &elems
	}

	if app.DataDefaultPrivileges != nil {
		uf.DataDefaultPrivileges = &formbus.DataPrivileges{
			Read:   app.DataDefaultPrivileges.Read,
			Create: app.DataDefaultPrivileges.Create,
			Edit:   app.DataDefaultPrivileges.Edit,
			Delete: app.DataDefaultPrivileges.Delete,
		}
	}

	return uf, nil
}

func toBusElems(app []Elem) ([]formbus.Elem, error) {
	elems := make([]formbus.Elem, len(app))

	for i, elem := range app {
		vt, err := valuetype.Parse(elem.ValueType)
		if err != nil {
			return nil, fmt.Errorf("elem[%s]: %w", elem.ElemID, err)
		}

		elems[i] = formbus.Elem{
			ElemID:           elem.ElemID,
			OrderNr:          elem.OrderNr,
			ValueType:        vt,
			Label:            elem.Label,
			Required:         elem.Required,
			ValidationRegExp: elem.ValidationRegExp,
			DoNotSave:        elem.DoNotSave,
			Privileges:       elem.Privileges,
		}
	}

	return elems, nil
}
