package formdatabus_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"testing"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/order"
	"github.com/councl/backend/business/sdk/page"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/sqldb"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/councl/backend/business/types/valuetype"
	"github.com/councl/backend/foundation/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	userA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	grpEd = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// memStore keeps documents in memory and answers queries through the
// filter's own eligibility contract, mirroring what the database store does
// in SQL.
type memStore struct {
	docs map[uuid.UUID]formdatabus.FormData
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[uuid.UUID]formdatabus.FormData)}
}

func (s *memStore) NewWithTx(tx sqldb.CommitRollbacker) (formdatabus.Storer, error) {
	return s, nil
}

func (s *memStore) Create(ctx context.Context, fd formdatabus.FormData) error {
	s.docs[fd.ID] = fd
	return nil
}

func (s *memStore) Update(ctx context.Context, fd formdatabus.FormData) error {
	if _, ok := s.docs[fd.ID]; !ok {
		return formdatabus.ErrNotFound
	}
	s.docs[fd.ID] = fd
	return nil
}

func (s *memStore) Delete(ctx context.Context, fd formdatabus.FormData) error {
	delete(s.docs, fd.ID)
	return nil
}

func (s *memStore) Query(ctx context.Context, filter formdatabus.QueryFilter, orderBy order.By, pg page.Page) ([]formdatabus.FormData, error) {
	var fds []formdatabus.FormData
	for _, fd := range s.docs {
		if filter.Eligible(fd) {
			fds = append(fds, fd)
		}
	}

	sort.Slice(fds, func(i, j int) bool {
		if fds[i].CreatedAt.Equal(fds[j].CreatedAt) {
			return fds[i].ID.String() < fds[j].ID.String()
		}
		return fds[i].CreatedAt.Before(fds[j].CreatedAt)
	})

	if pg.Offset() >= len(fds) {
		return nil, nil
	}
	fds = fds[pg.Offset():]
	if len(fds) > pg.Limit() {
		fds = fds[:pg.Limit()]
	}

	return fds, nil
}

func (s *memStore) Count(ctx context.Context, filter formdatabus.QueryFilter) (int, error) {
	var n int
	for _, fd := range s.docs {
		if filter.Eligible(fd) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) QueryByID(ctx context.Context, dataID uuid.UUID) (formdatabus.FormData, error) {
	fd, ok := s.docs[dataID]
	if !ok {
		return formdatabus.FormData{}, formdatabus.ErrNotFound
	}
	return fd, nil
}

// =============================================================================

func newTestCore(t *testing.T) (*formdatabus.Core, *memStore) {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	store := newMemStore()

	return formdatabus.NewCore(log, store), store
}

func testForm() formbus.Form {
	return formbus.Form{
		ID:    uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		Title: "Contact",
		Elems: []formbus.Elem{
			{ElemID: "name", OrderNr: 1, ValueType: valuetype.String, Required: true},
			{ElemID: "age", OrderNr: 2, ValueType: valuetype.Number},
			{ElemID: "email", OrderNr: 3, ValueType: valuetype.String, ValidationRegExp: `^[^@\s]+@[^@\s]+$`},
			{ElemID: "captcha", OrderNr: 4, ValueType: valuetype.String, DoNotSave: true},
		},
		DataDefaultPrivileges: formbus.DataPrivileges{
			Read:   privilege.Rule{Public: pubmode.True},
			Create: privilege.Rule{Public: pubmode.True},
			Edit:   privilege.Rule{Users: []uuid.UUID{userA}},
			Delete: privilege.Rule{Users: []uuid.UUID{userA}},
		},
	}
}

func Test_Submit(t *testing.T) {
	ctx := context.Background()
	core, store := newTestCore(t)
	frm := testForm()
	anon := privilege.Requester{}

	t.Run("valid submission stored", func(t *testing.T) {
		fd, err := core.Submit(ctx, frm, anon, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "age", Value: 36.0},
			{ElemID: "captcha", Value: "x7k"},
		})
		require.NoError(t, err)
		require.Len(t, fd.Entries, 2, "do-not-save elem must not persist")
		require.Equal(t, "name", fd.Entries[0].ElemID)
		require.Equal(t, 1, fd.Entries[0].OrderNr)
		require.Contains(t, store.docs, fd.ID)
	})

	t.Run("missing required value rejected", func(t *testing.T) {
		_, err := core.Submit(ctx, frm, anon, []formdatabus.NewValue{
			{ElemID: "age", Value: 36.0},
		})
		ve, ok := formdatabus.GetValueError(err)
		require.True(t, ok)
		require.Equal(t, "name", ve.ElemID)
	})

	t.Run("unknown elem rejected", func(t *testing.T) {
		_, err := core.Submit(ctx, frm, anon, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "nickname", Value: "ada"},
		})
		ve, ok := formdatabus.GetValueError(err)
		require.True(t, ok)
		require.Equal(t, "nickname", ve.ElemID)
	})

	t.Run("wrong value type rejected", func(t *testing.T) {
		_, err := core.Submit(ctx, frm, anon, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "age", Value: "thirty"},
		})
		ve, ok := formdatabus.GetValueError(err)
		require.True(t, ok)
		require.Equal(t, "age", ve.ElemID)
	})

	t.Run("pattern mismatch rejected", func(t *testing.T) {
		_, err := core.Submit(ctx, frm, anon, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "email", Value: "not-an-email"},
		})
		ve, ok := formdatabus.GetValueError(err)
		require.True(t, ok)
		require.Equal(t, "email", ve.ElemID)
	})

	t.Run("create rule denial", func(t *testing.T) {
		frm := testForm()
		frm.DataDefaultPrivileges.Create = privilege.Rule{Users: []uuid.UUID{userA}}

		_, err := core.Submit(ctx, frm, anon, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
		})
		require.ErrorIs(t, err, formdatabus.ErrAccessDenied)
	})
}

func Test_QueryByID(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous reads a public document", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()

		fd, err := core.Submit(ctx, frm, privilege.Requester{}, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "age", Value: 36.0},
		})
		require.NoError(t, err)

		entries, err := core.QueryByID(ctx, frm, privilege.Requester{}, fd.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "Ada", entries[0].Value)
		require.Equal(t, 36.0, entries[1].Value)
	})

	t.Run("denied document reads as not found", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()
		frm.DataDefaultPrivileges.Read = privilege.Rule{Groups: []uuid.UUID{grpEd}}

		fd, err := core.Submit(ctx, frm, privilege.Requester{SignedIn: true, UserID: userA}, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
		})
		require.NoError(t, err)

		outsider := privilege.Requester{SignedIn: true, UserID: userB}
		_, err = core.QueryByID(ctx, frm, outsider, fd.ID)
		require.ErrorIs(t, err, formdatabus.ErrNotFound)
	})

	t.Run("wrong form reads as not found", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()

		fd, err := core.Submit(ctx, frm, privilege.Requester{}, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
		})
		require.NoError(t, err)

		other := testForm()
		other.ID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
		_, err = core.QueryByID(ctx, other, privilege.Requester{}, fd.ID)
		require.ErrorIs(t, err, formdatabus.ErrNotFound)
	})

	t.Run("entry override surfaces one field of a denied document", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()
		frm.DataDefaultPrivileges.Read = privilege.Rule{Groups: []uuid.UUID{grpEd}}

		pubTrue := pubmode.True
		frm.Elems[0].Privileges = &formbus.ElemPrivileges{
			Read: &privilege.Partial{Public: &pubTrue},
		}

		author := privilege.Requester{SignedIn: true, UserID: userA, Groups: []uuid.UUID{grpEd}}
		fd, err := core.Submit(ctx, frm, author, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "age", Value: 36.0},
		})
		require.NoError(t, err)
		require.True(t, fd.HasElemPrivileges)

		outsider := privilege.Requester{SignedIn: true, UserID: userB}
		entries, err := core.QueryByID(ctx, frm, outsider, fd.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "name", entries[0].ElemID)
		require.Equal(t, 1, entries[0].OrderNr, "authored order number survives redaction")
	})
}

func Test_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("signed-in bulk read excludes non-members", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()
		frm.DataDefaultPrivileges.Read = privilege.Rule{Groups: []uuid.UUID{grpEd}}
		frm.DataDefaultPrivileges.Create = privilege.Rule{Public: pubmode.True}

		member := privilege.Requester{SignedIn: true, UserID: userA, Groups: []uuid.UUID{grpEd}}
		_, err := core.Submit(ctx, frm, member, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
		})
		require.NoError(t, err)

		res, err := core.Query(ctx, frm, member, nil, formdatabus.DefaultOrderBy, page.MustParse("", ""))
		require.NoError(t, err)
		require.Len(t, res.Docs, 1)
		require.Equal(t, 1, res.Total)

		outsider := privilege.Requester{SignedIn: true, UserID: userB}
		res, err = core.Query(ctx, frm, outsider, nil, formdatabus.DefaultOrderBy, page.MustParse("", ""))
		require.NoError(t, err)
		require.Empty(t, res.Docs)
		require.Zero(t, res.Total)
	})

	t.Run("signed-in bulk read skips unlisted public documents", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()

		fd, err := core.Submit(ctx, frm, privilege.Requester{}, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
		})
		require.NoError(t, err)

		signedIn := privilege.Requester{SignedIn: true, UserID: userB}

		res, err := core.Query(ctx, frm, signedIn, nil, formdatabus.DefaultOrderBy, page.MustParse("", ""))
		require.NoError(t, err)
		require.Empty(t, res.Docs, "bulk reads require an explicit listing for signed-in requesters")

		entries, err := core.QueryByID(ctx, frm, signedIn, fd.ID)
		require.NoError(t, err, "the single document path still admits public rules")
		require.Len(t, entries, 1)
	})

	t.Run("total counts beyond the page", func(t *testing.T) {
		core, store := newTestCore(t)
		frm := testForm()

		for i := range 30 {
			fd := formdatabus.FormData{
				ID:     uuid.New(),
				FormID: frm.ID,
				Entries: []formdatabus.Entry{
					{ElemID: "name", OrderNr: 1, Value: fmt.Sprintf("doc-%d", i), ValueType: valuetype.String},
				},
			}
			require.NoError(t, store.Create(ctx, fd))
		}

		res, err := core.Query(ctx, frm, privilege.Requester{}, nil, formdatabus.DefaultOrderBy, page.MustParse("0", "10"))
		require.NoError(t, err)
		require.Len(t, res.Docs, 10)
		require.Equal(t, 30, res.Total)
		require.Equal(t, 10, res.Limit)
	})

	t.Run("multi id read returns only the requested documents", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()

		var ids []uuid.UUID
		for i := range 3 {
			fd, err := core.Submit(ctx, frm, privilege.Requester{}, []formdatabus.NewValue{
				{ElemID: "name", Value: fmt.Sprintf("doc-%d", i)},
			})
			require.NoError(t, err)
			ids = append(ids, fd.ID)
		}

		res, err := core.Query(ctx, frm, privilege.Requester{}, ids[:2], formdatabus.DefaultOrderBy, page.MustParse("", ""))
		require.NoError(t, err)
		require.Len(t, res.Docs, 2)
		require.Equal(t, 2, res.Total)
	})
}

func Test_Update(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, core *formdatabus.Core, frm formbus.Form) formdatabus.FormData {
		t.Helper()
		fd, err := core.Submit(ctx, frm, privilege.Requester{SignedIn: true, UserID: userA}, []formdatabus.NewValue{
			{ElemID: "name", Value: "Ada"},
			{ElemID: "age", Value: 36.0},
		})
		require.NoError(t, err)
		return fd
	}

	t.Run("listed user updates a value", func(t *testing.T) {
		core, store := newTestCore(t)
		frm := testForm()
		fd := submit(t, core, frm)

		editor := privilege.Requester{SignedIn: true, UserID: userA}
		updated, err := core.Update(ctx, frm, editor, fd.ID, []formdatabus.NewValue{
			{ElemID: "age", Value: 37.0},
		})
		require.NoError(t, err)
		require.Equal(t, 37.0, updated.Entries[1].Value)
		require.Equal(t, 37.0, store.docs[fd.ID].Entries[1].Value)
	})

	t.Run("unlisted user denied", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()
		fd := submit(t, core, frm)

		outsider := privilege.Requester{SignedIn: true, UserID: userB}
		_, err := core.Update(ctx, frm, outsider, fd.ID, []formdatabus.NewValue{
			{ElemID: "age", Value: 37.0},
		})
		require.ErrorIs(t, err, formdatabus.ErrAccessDenied)
	})

	t.Run("entry edit override blocks a single elem", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()

		noUsers := []uuid.UUID{}
		frm.Elems[1].Privileges = &formbus.ElemPrivileges{
			Edit: &privilege.Partial{Users: &noUsers},
		}
		fd := submit(t, core, frm)

		editor := privilege.Requester{SignedIn: true, UserID: userA}

		_, err := core.Update(ctx, frm, editor, fd.ID, []formdatabus.NewValue{
			{ElemID: "age", Value: 37.0},
		})
		ve, ok := formdatabus.GetValueError(err)
		require.True(t, ok)
		require.Equal(t, "age", ve.ElemID)

		_, err = core.Update(ctx, frm, editor, fd.ID, []formdatabus.NewValue{
			{ElemID: "name", Value: "Grace"},
		})
		require.NoError(t, err, "other elems stay editable")
	})

	t.Run("unknown document reads as not found", func(t *testing.T) {
		core, _ := newTestCore(t)
		frm := testForm()

		editor := privilege.Requester{SignedIn: true, UserID: userA}
		_, err := core.Update(ctx, frm, editor, uuid.New(), []formdatabus.NewValue{
			{ElemID: "age", Value: 37.0},
		})
		require.ErrorIs(t, err, formdatabus.ErrNotFound)
	})
}

func Test_Delete(t *testing.T) {
	ctx := context.Background()
	core, store := newTestCore(t)
	frm := testForm()

	fd, err := core.Submit(ctx, frm, privilege.Requester{SignedIn: true, UserID: userA}, []formdatabus.NewValue{
		{ElemID: "name", Value: "Ada"},
	})
	require.NoError(t, err)

	outsider := privilege.Requester{SignedIn: true, UserID: userB}
	err = core.Delete(ctx, frm, outsider, fd.ID)
	require.ErrorIs(t, err, formdatabus.ErrAccessDenied)
	require.Contains(t, store.docs, fd.ID)

	owner := privilege.Requester{SignedIn: true, UserID: userA}
	require.NoError(t, core.Delete(ctx, frm, owner, fd.ID))
	require.NotContains(t, store.docs, fd.ID)

	err = core.Delete(ctx, frm, owner, fd.ID)
	require.ErrorIs(t, err, formdatabus.ErrNotFound)
}
