package formdatadb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/google/uuid"
)

type formDataDB struct {
	ID                uuid.UUID      `db:"data_id"`
	FormID            uuid.UUID      `db:"form_id"`
	Entries           []byte         `db:"entries"`
	Privileges        []byte         `db:"privileges"`
	HasElemPrivileges bool           `db:"has_elem_privileges"`
	CreatedBy         sql.NullString `db:"created_by"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func toDBFormData(bus formdatabus.FormData) (formDataDB, error) {
	entries, err := json.Marshal(bus.Entries)
	if err != nil {
		return formDataDB{}, fmt.Errorf("marshal entries: %w", err)
	}

	var privs []byte
	if bus.Privileges != nil {
		privs, err = json.Marshal(bus.Privileges)
		if err != nil {
			return formDataDB{}, fmt.Errorf("marshal privileges: %w", err)
		}
	}

	var createdBy sql.NullString
	if bus.CreatedBy != uuid.Nil {
		createdBy = sql.NullString{String: bus.CreatedBy.String(), Valid: true}
	}

	return formDataDB{
		ID:                bus.ID,
		FormID:            bus.FormID,
		Entries:           entries,
		Privileges:        privs,
		HasElemPrivileges: bus.HasElemPrivileges,
		CreatedBy:         createdBy,
		CreatedAt:         bus.CreatedAt.UTC(),
		UpdatedAt:         bus.UpdatedAt.UTC(),
	}, nil
}

func toBusFormData(db formDataDB) (formdatabus.FormData, error) {
	var entries []formdatabus.Entry
	if err := json.Unmarshal(db.Entries, &entries); err != nil {
		return formdatabus.FormData{}, fmt.Errorf("unmarshal entries: %w", err)
	}

	var privs *formdatabus.DataPrivileges
	if len(db.Privileges) > 0 {
		privs = &formdatabus.DataPrivileges{}
		if err := json.Unmarshal(db.Privileges, privs); err != nil {
			return formdatabus.FormData{}, fmt.Errorf("unmarshal privileges: %w", err)
		}
	}

	var createdBy uuid.UUID
	if db.CreatedBy.Valid {
		var err error
		createdBy, err = uuid.Parse(db.CreatedBy.String)
		if err != nil {
			return formdatabus.FormData{}, fmt.Errorf("parse created by: %w", err)
		}
	}

	bus := formdatabus.FormData{
		ID:                db.ID,
		FormID:            db.FormID,
		Entries:           entries,
		Privileges:        privs,
		HasElemPrivileges: db.HasElemPrivileges,
		CreatedBy:         createdBy,
		CreatedAt:         db.CreatedAt.In(time.Local),
		UpdatedAt:         db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusFormDatas(dbs []formDataDB) ([]formdatabus.FormData, error) {
	bus := make([]formdatabus.FormData, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusFormData(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
