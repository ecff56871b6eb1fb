package privilege_test

import (
	"testing"

	"github.com/councl/backend/business/sdk/predicate"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_ReadFilterSignedOut(t *testing.T) {
	conds := privilege.ReadFilterSignedOut(false)

	tests := []struct {
		name  string
		rule  privilege.Rule
		match bool
	}{
		{"public true matches", privilege.Rule{Public: pubmode.True}, true},
		{"onlyPublic matches", privilege.Rule{Public: pubmode.OnlyPublic}, true},
		{"private rule filtered out", privilege.Rule{Users: []uuid.UUID{userA}}, false},
		{"csrf required filtered out", privilege.Rule{Public: pubmode.True, RequireCsrfHeader: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.match, predicate.MatchAll(conds, tt.rule))
		})
	}

	t.Run("csrf valid admits csrf rules", func(t *testing.T) {
		conds := privilege.ReadFilterSignedOut(true)
		rule := privilege.Rule{Public: pubmode.True, RequireCsrfHeader: true}
		require.True(t, predicate.MatchAll(conds, rule))
	})
}

func Test_ReadFilterSignedIn(t *testing.T) {
	req := privilege.Requester{
		SignedIn: true,
		UserID:   userA,
		Groups:   []uuid.UUID{grpVw},
	}
	conds := privilege.ReadFilterSignedIn(req)

	tests := []struct {
		name  string
		rule  privilege.Rule
		match bool
	}{
		{"listed user matches", privilege.Rule{Users: []uuid.UUID{userA}}, true},
		{"shared group matches", privilege.Rule{Groups: []uuid.UUID{grpVw, grpEd}}, true},
		{"unlisted user filtered out", privilege.Rule{Users: []uuid.UUID{userB}}, false},
		{"onlyPublic filtered out even when listed", privilege.Rule{Public: pubmode.OnlyPublic, Users: []uuid.UUID{userA}}, false},
		{"exclude user vetoes the allow list", privilege.Rule{Users: []uuid.UUID{userA}, ExcludeUsers: []uuid.UUID{userA}}, false},
		{"exclude group vetoes the allow list", privilege.Rule{Users: []uuid.UUID{userA}, ExcludeGroups: []uuid.UUID{grpVw}}, false},

		// The bulk read path requires an explicit listing. A public rule
		// with no listing does not match for a signed-in requester; the
		// single document path still admits it through Check.
		{"public true without listing filtered out", privilege.Rule{Public: pubmode.True}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.match, predicate.MatchAll(conds, tt.rule))
		})
	}

	t.Run("admin skips the list conditions", func(t *testing.T) {
		conds := privilege.ReadFilterSignedIn(privilege.Requester{SignedIn: true, UserID: userB, Admin: true})

		require.True(t, predicate.MatchAll(conds, privilege.Rule{Users: []uuid.UUID{userA}}))
		require.False(t, predicate.MatchAll(conds, privilege.Rule{Public: pubmode.OnlyPublic}))
		require.False(t, predicate.MatchAll(conds, privilege.Rule{RequireCsrfHeader: true}))
	})
}
