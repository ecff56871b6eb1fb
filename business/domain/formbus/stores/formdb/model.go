package formdb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/google/uuid"
)

type formDB struct {
	ID                    uuid.UUID `db:"form_id"`
	SimpleID              string    `db:"simple_id"`
	Title                 string    `db:"title"`
	Description           string    `db:"description"`
	Elems                 []byte    `db:"elems"`
	CanUseForm            []byte    `db:"can_use_form"`
	DataDefaultPrivileges []byte    `db:"data_default_privileges"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func toDBForm(bus formbus.Form) (formDB, error) {
	elems, err := json.Marshal(bus.Elems)
	if err != nil {
		return formDB{}, fmt.Errorf("marshal elems: %w", err)
	}

	canUse, err := json.Marshal(bus.CanUseForm)
	if err != nil {
		return formDB{}, fmt.Errorf("marshal can use form: %w", err)
	}

	defPrivs, err := json.Marshal(bus.DataDefaultPrivileges)
	if err != nil {
		return formDB{}, fmt.Errorf("marshal default privileges: %w", err)
	}

	return formDB{
		ID:                    bus.ID,
		SimpleID:              bus.SimpleID.String(),
		Title:                 bus.Title,
		Description:           bus.Description,
		Elems:                 elems,
		CanUseForm:            canUse,
		DataDefaultPrivileges: defPrivs,
		CreatedAt:             bus.CreatedAt.UTC(),
		UpdatedAt:             bus.UpdatedAt.UTC(),
	}, nil
}

func toBusForm(db formDB) (formbus.Form, error) {
	sid, err := simpleid.Parse(db.SimpleID)
	if err != nil {
		return formbus.Form{}, fmt.Errorf("parse simple id: %w", err)
	}

	var elems []formbus.Elem
	if err := json.Unmarshal(db.Elems, &elems); err != nil {
		return formbus.Form{}, fmt.Errorf("unmarshal elems: %w", err)
	}

	var canUse privilege.Rule
	if err := json.Unmarshal(db.CanUseForm, &canUse); err != nil {
		return formbus.Form{}, fmt.Errorf("unmarshal can use form: %w", err)
	}

	var defPrivs formbus.DataPrivileges
	if err := json.Unmarshal(db.DataDefaultPrivileges, &defPrivs); err != nil {
		return formbus.Form{}, fmt.Errorf("unmarshal default privileges: %w", err)
	}

	bus := formbus.Form{
		ID:                    db.ID,
		SimpleID:              sid,
		Title:                 db.Title,
		Description:           db.Description,
		Elems:                 elems,
		CanUseForm:            canUse,
		DataDefaultPrivileges: defPrivs,
		CreatedAt:             db.CreatedAt.In(time.Local),
		UpdatedAt:             db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}
