package formdb

import (
	"testing"
	"time"

	"github.com/councl/backend/business/domain/formbus"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/councl/backend/business/types/simpleid"
	"github.com/councl/backend/business/types/valuetype"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_FormRoundTrip(t *testing.T) {
	t.Run("unset rules survive storage", func(t *testing.T) {
		// Admins may create forms without spelling out every rule. The
		// zero-valued rules must read back as deny-all, not poison the row.
		bus := formbus.Form{
			ID:       uuid.New(),
			SimpleID: simpleid.MustParse("contact"),
			Title:    "Contact",
			Elems: []formbus.Elem{
				{ElemID: "name", OrderNr: 1, ValueType: valuetype.String},
			},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}

		db, err := toDBForm(bus)
		require.NoError(t, err)

		got, err := toBusForm(db)
		require.NoError(t, err)

		require.True(t, got.CanUseForm.Public.Equal(pubmode.False))
		require.True(t, got.DataDefaultPrivileges.Read.Public.Equal(pubmode.False))
		require.True(t, got.DataDefaultPrivileges.Create.Public.Equal(pubmode.False))
	})

	t.Run("set rules survive storage", func(t *testing.T) {
		userA := uuid.New()

		bus := formbus.Form{
			ID:       uuid.New(),
			SimpleID: simpleid.MustParse("survey"),
			Title:    "Survey",
			Elems: []formbus.Elem{
				{ElemID: "q1", OrderNr: 1, ValueType: valuetype.String, Required: true},
			},
			CanUseForm: privilege.Rule{Public: pubmode.True},
			DataDefaultPrivileges: formbus.DataPrivileges{
				Read:   privilege.Rule{Public: pubmode.OnlyPublic},
				Create: privilege.Rule{Public: pubmode.True},
			},
		}
		bus.DataDefaultPrivileges.Edit.Users = []uuid.UUID{userA}

		db, err := toDBForm(bus)
		require.NoError(t, err)

		got, err := toBusForm(db)
		require.NoError(t, err)

		require.True(t, got.CanUseForm.Public.Equal(pubmode.True))
		require.True(t, got.DataDefaultPrivileges.Read.Public.Equal(pubmode.OnlyPublic))
		require.Equal(t, []uuid.UUID{userA}, got.DataDefaultPrivileges.Edit.Users)
		require.True(t, got.Elems[0].Required)
	})
}
