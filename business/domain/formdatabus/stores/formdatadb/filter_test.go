package formdatadb

import (
	"bytes"
	"testing"

	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/sdk/sqldb/dbarray"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_ApplyFilter(t *testing.T) {
	formID := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	dataID := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001")

	var s Store

	t.Run("form id only", func(t *testing.T) {
		var buf bytes.Buffer
		data := map[string]any{}

		filter := formdatabus.QueryFilter{FormID: formID}
		require.NoError(t, s.applyFilter(filter, data, &buf))

		require.Equal(t, " WHERE form_id = :form_id", buf.String())
		require.Equal(t, formID.String(), data["form_id"])
	})

	t.Run("data ids become a uuid array parameter", func(t *testing.T) {
		var buf bytes.Buffer
		data := map[string]any{}

		filter := formdatabus.QueryFilter{FormID: formID, DataIDs: []uuid.UUID{dataID}}
		require.NoError(t, s.applyFilter(filter, data, &buf))

		require.Contains(t, buf.String(), "data_id = ANY(CAST(:data_ids AS uuid[]))")
		require.Equal(t, dbarray.String{dataID.String()}, data["data_ids"])
	})

	t.Run("read predicate translates over the effective rule", func(t *testing.T) {
		var buf bytes.Buffer
		data := map[string]any{}

		req := privilege.Requester{SignedIn: true, UserID: uuid.New()}
		filter := formdatabus.QueryFilter{
			FormID:      formID,
			Read:        privilege.ReadFilterSignedIn(req),
			DefaultRead: privilege.Rule{Public: pubmode.True},
		}
		require.NoError(t, s.applyFilter(filter, data, &buf))

		sql := buf.String()
		require.Contains(t, sql, "CAST(:default_read AS jsonb) || COALESCE(privileges->'read', '{}'::jsonb)")
		require.Contains(t, sql, "jsonb_exists_any")
		require.Contains(t, sql, "COALESCE(NULLIF", "unset scalars must read as 'false'")
		require.Contains(t, data, "default_read")
		require.Contains(t, data["default_read"], `"public":"true"`)

		// One named parameter per leaf condition, none reused.
		var params int
		for k := range data {
			if len(k) > 4 && k[:4] == "priv" {
				params++
			}
		}
		require.Equal(t, 7, params)
	})

	t.Run("anonymous predicate has no list conditions", func(t *testing.T) {
		var buf bytes.Buffer
		data := map[string]any{}

		filter := formdatabus.QueryFilter{
			FormID: formID,
			Read:   privilege.ReadFilterSignedOut(false),
		}
		require.NoError(t, s.applyFilter(filter, data, &buf))

		require.NotContains(t, buf.String(), "jsonb_exists_any")
	})
}
