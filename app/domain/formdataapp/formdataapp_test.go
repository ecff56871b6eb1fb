package formdataapp

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/councl/backend/app/sdk/errs"
	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/order"
	"github.com/councl/backend/business/sdk/page"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/business/types/valuetype"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// formStore answers form lookups from a fixed set of definitions.
type formStore struct {
	forms map[string]formbus.Form
}

func (s *formStore) NewWithTx(tx sqldb.CommitRollbacker) (formbus.Storer, error) {
	return s, nil
}

func (s *formStore) Create(ctx context.Context, frm formbus.Form) error {
	s.forms[frm.SimpleID.String()] = frm
	return nil
}

func (s *formStore) Update(ctx context.Context, frm formbus.Form) error {
	s.forms[frm.SimpleID.String()] = frm
	return nil
}

func (s *formStore) Delete(ctx context.Context, frm formbus.Form) error {
	delete(s.forms, frm.SimpleID.String())
	return nil
}

func (s *formStore) QueryByID(ctx context.Context, formID uuid.UUID) (formbus.Form, error) {
	for _, frm := range s.forms {
		if frm.ID == formID {
			return frm, nil
		}
	}
	return formbus.Form{}, formbus.ErrNotFound
}

func (s *formStore) QueryBySimpleID(ctx context.Context, simpleID simpleid.SimpleID) (formbus.Form, error) {
	frm, ok := s.forms[simpleID.String()]
	if !ok {
		return formbus.Form{}, formbus.ErrNotFound
	}
	return frm, nil
}

// dataStore keeps documents in memory and answers queries through the
// filter's eligibility contract.
type dataStore struct {
	docs map[uuid.UUID]formdatabus.FormData
}

func (s *dataStore) NewWithTx(tx sqldb.CommitRollbacker) (formdatabus.Storer, error) {
	return s, nil
}

func (s *dataStore) Create(ctx context.Context, fd formdatabus.FormData) error {
	s.docs[fd.ID] = fd
	return nil
}

func (s *dataStore) Update(ctx context.Context, fd formdatabus.FormData) error {
	s.docs[fd.ID] = fd
	return nil
}

func (s *dataStore) Delete(ctx context.Context, fd formdatabus.FormData) error {
	delete(s.docs, fd.ID)
	return nil
}

func (s *dataStore) Query(ctx context.Context, filter formdatabus.QueryFilter, orderBy order.By, pg page.Page) ([]formdatabus.FormData, error) {
	var fds []formdatabus.FormData
	for _, fd := range s.docs {
		if filter.Eligible(fd) {
			fds = append(fds, fd)
		}
	}
	if len(fds) > pg.Limit() {
		fds = fds[:pg.Limit()]
	}
	return fds, nil
}

func (s *dataStore) Count(ctx context.Context, filter formdatabus.QueryFilter) (int, error) {
	var n int
	for _, fd := range s.docs {
		if filter.Eligible(fd) {
			n++
		}
	}
	return n, nil
}

func (s *dataStore) QueryByID(ctx context.Context, dataID uuid.UUID) (formdatabus.FormData, error) {
	fd, ok := s.docs[dataID]
	if !ok {
		return formdatabus.FormData{}, formdatabus.ErrNotFound
	}
	return fd, nil
}

// =============================================================================

func newTestApp(t *testing.T, frm formbus.Form) (*app, *dataStore) {
	t.Helper()

	fs := &formStore{forms: map[string]formbus.Form{frm.SimpleID.String(): frm}}
	ds := &dataStore{docs: make(map[uuid.UUID]formdatabus.FormData)}

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	return newApp(formbus.NewCore(fs), formdatabus.NewCore(log, ds)), ds
}

func contactForm() formbus.Form {
	return formbus.Form{
		ID:       uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		SimpleID: simpleid.MustParse("contact"),
		Title:    "Contact",
		Elems: []formbus.Elem{
			{ElemID: "name", OrderNr: 1, ValueType: valuetype.String, Required: true},
			{ElemID: "age", OrderNr: 2, ValueType: valuetype.Number},
		},
		CanUseForm: privilege.Rule{Public: pubmode.True},
		DataDefaultPrivileges: formbus.DataPrivileges{
			Read:   privilege.Rule{Public: pubmode.True},
			Create: privilege.Rule{Public: pubmode.True},
		},
	}
}

func storeDoc(ds *dataStore, frm formbus.Form, name string, age float64) uuid.UUID {
	fd := formdatabus.FormData{
		ID:     uuid.New(),
		FormID: frm.ID,
		Entries: []formdatabus.Entry{
			{ElemID: "name", OrderNr: 1, Value: name, ValueType: valuetype.String},
			{ElemID: "age", OrderNr: 2, Value: age, ValueType: valuetype.Number},
		},
	}
	ds.docs[fd.ID] = fd
	return fd.ID
}

func Test_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("neither form nor data is a bad request", func(t *testing.T) {
		api, _ := newTestApp(t, contactForm())

		r := httptest.NewRequest("GET", "/v1/forms/contact", nil)
		r.SetPathValue("simple_id", "contact")

		er, ok := api.read(ctx, r).(*errs.Error)
		require.True(t, ok)
		require.Equal(t, errs.InvalidArgument, er.Code)
	})

	t.Run("getForm returns the definition without privilege rules", func(t *testing.T) {
		api, _ := newTestApp(t, contactForm())

		r := httptest.NewRequest("GET", "/v1/forms/contact?getForm=true", nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)

		frm, ok := resp["$form"].(Form)
		require.True(t, ok)
		require.Equal(t, "contact", frm.SimpleID)
		require.Len(t, frm.Elems, 2)
		require.NotContains(t, resp, "data")
		require.NotContains(t, resp, "$pagination")
	})

	t.Run("denied form answers privilegeError", func(t *testing.T) {
		frm := contactForm()
		frm.CanUseForm = privilege.Rule{Users: []uuid.UUID{uuid.New()}}
		api, _ := newTestApp(t, frm)

		r := httptest.NewRequest("GET", "/v1/forms/contact?getForm=1", nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)
		require.Equal(t, "privilegeError", resp["$form"])
	})

	t.Run("bulk read carries pagination", func(t *testing.T) {
		frm := contactForm()
		api, ds := newTestApp(t, frm)
		storeDoc(ds, frm, "Ada", 36)
		storeDoc(ds, frm, "Grace", 45)

		r := httptest.NewRequest("GET", "/v1/forms/contact?dataId=all&limit=1", nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)

		docs, ok := resp["data"].([][]DataEntry)
		require.True(t, ok)
		require.Len(t, docs, 1)

		pg, ok := resp["$pagination"].(Pagination)
		require.True(t, ok)
		require.Equal(t, 1, pg.Limit)
		require.Equal(t, 2, pg.Total)
	})

	t.Run("single read has no pagination", func(t *testing.T) {
		frm := contactForm()
		api, ds := newTestApp(t, frm)
		dataID := storeDoc(ds, frm, "Ada", 36)

		r := httptest.NewRequest("GET", "/v1/forms/contact?dataId="+dataID.String(), nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)
		require.NotContains(t, resp, "$pagination")

		entries, ok := resp["data"].([]DataEntry)
		require.True(t, ok)
		require.Len(t, entries, 2)
		require.Equal(t, "name", entries[0].ElemID)
	})

	t.Run("flat mode keys the reply by elem id", func(t *testing.T) {
		frm := contactForm()
		api, ds := newTestApp(t, frm)
		dataID := storeDoc(ds, frm, "Ada", 36)

		r := httptest.NewRequest("GET", "/v1/forms/contact?dataId="+dataID.String()+"&flat=true", nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)
		require.Equal(t, "Ada", resp["name"])
		require.Equal(t, 36.0, resp["age"])
		require.NotContains(t, resp, "data")
		require.NotContains(t, resp, "$pagination")
	})

	t.Run("missing single id is not found", func(t *testing.T) {
		api, _ := newTestApp(t, contactForm())

		r := httptest.NewRequest("GET", "/v1/forms/contact?dataId="+uuid.NewString(), nil)
		r.SetPathValue("simple_id", "contact")

		er, ok := api.read(ctx, r).(*errs.Error)
		require.True(t, ok)
		require.Equal(t, errs.NotFound, er.Code)
	})

	t.Run("missing single id with getForm still returns the form", func(t *testing.T) {
		api, _ := newTestApp(t, contactForm())

		r := httptest.NewRequest("GET", "/v1/forms/contact?getForm=true&dataId="+uuid.NewString(), nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)
		require.Contains(t, resp, "$form")
		require.NotContains(t, resp, "data")
	})

	t.Run("multi id read returns docs without pagination", func(t *testing.T) {
		frm := contactForm()
		api, ds := newTestApp(t, frm)
		id1 := storeDoc(ds, frm, "Ada", 36)
		id2 := storeDoc(ds, frm, "Grace", 45)
		storeDoc(ds, frm, "Edsger", 55)

		r := httptest.NewRequest("GET", "/v1/forms/contact?dataId="+id1.String()+","+id2.String(), nil)
		r.SetPathValue("simple_id", "contact")

		resp, ok := api.read(ctx, r).(reply)
		require.True(t, ok)

		docs, ok := resp["data"].([][]DataEntry)
		require.True(t, ok)
		require.Len(t, docs, 2)
		require.NotContains(t, resp, "$pagination")
	})

	t.Run("unknown form is not found", func(t *testing.T) {
		api, _ := newTestApp(t, contactForm())

		r := httptest.NewRequest("GET", "/v1/forms/nope?getForm=true", nil)
		r.SetPathValue("simple_id", "nope")

		er, ok := api.read(ctx, r).(*errs.Error)
		require.True(t, ok)
		require.Equal(t, errs.NotFound, er.Code)
	})
}
