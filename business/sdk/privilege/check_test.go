package privilege_test

import (
	"testing"

	"github.com/councl/backend/business/sdk/privilege"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	userA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	grpEd = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	grpVw = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

func Test_Check(t *testing.T) {
	tests := []struct {
		name   string
		rule   privilege.Rule
		req    privilege.Requester
		allow  bool
		reason privilege.Reason
	}{
		{
			name:  "public true allows signed out",
			rule:  privilege.Rule{Public: pubmode.True},
			req:   privilege.Requester{},
			allow: true,
		},
		{
			name:  "public true allows any signed in user",
			rule:  privilege.Rule{Public: pubmode.True},
			req:   privilege.Requester{SignedIn: true, UserID: userB},
			allow: true,
		},
		{
			name:   "default rule denies signed out",
			rule:   privilege.Rule{},
			req:    privilege.Requester{},
			allow:  false,
			reason: privilege.ReasonNotPublic,
		},
		{
			name:  "onlyPublic allows signed out",
			rule:  privilege.Rule{Public: pubmode.OnlyPublic},
			req:   privilege.Requester{},
			allow: true,
		},
		{
			name:   "onlyPublic denies signed in even when listed",
			rule:   privilege.Rule{Public: pubmode.OnlyPublic, Users: []uuid.UUID{userA}},
			req:    privilege.Requester{SignedIn: true, UserID: userA},
			allow:  false,
			reason: privilege.ReasonSignedInExcluded,
		},
		{
			name:  "listed user allowed",
			rule:  privilege.Rule{Users: []uuid.UUID{userA}},
			req:   privilege.Requester{SignedIn: true, UserID: userA},
			allow: true,
		},
		{
			name:  "group member allowed",
			rule:  privilege.Rule{Groups: []uuid.UUID{grpEd}},
			req:   privilege.Requester{SignedIn: true, UserID: userA, Groups: []uuid.UUID{grpEd, grpVw}},
			allow: true,
		},
		{
			name:   "unlisted user denied",
			rule:   privilege.Rule{Users: []uuid.UUID{userA}, Groups: []uuid.UUID{grpEd}},
			req:    privilege.Requester{SignedIn: true, UserID: userB, Groups: []uuid.UUID{grpVw}},
			allow:  false,
			reason: privilege.ReasonNotListed,
		},
		{
			name:   "exclude user overrides allow list",
			rule:   privilege.Rule{Users: []uuid.UUID{userA}, ExcludeUsers: []uuid.UUID{userA}},
			req:    privilege.Requester{SignedIn: true, UserID: userA},
			allow:  false,
			reason: privilege.ReasonExplicitlyExcluded,
		},
		{
			name:   "exclude group overrides public true",
			rule:   privilege.Rule{Public: pubmode.True, ExcludeGroups: []uuid.UUID{grpVw}},
			req:    privilege.Requester{SignedIn: true, UserID: userB, Groups: []uuid.UUID{grpVw}},
			allow:  false,
			reason: privilege.ReasonExplicitlyExcluded,
		},
		{
			name:  "admin bypasses the lists",
			rule:  privilege.Rule{ExcludeUsers: []uuid.UUID{userA}},
			req:   privilege.Requester{SignedIn: true, UserID: userA, Admin: true},
			allow: true,
		},
		{
			name:   "admin still blocked by csrf",
			rule:   privilege.Rule{Public: pubmode.True, RequireCsrfHeader: true},
			req:    privilege.Requester{SignedIn: true, UserID: userA, Admin: true},
			allow:  false,
			reason: privilege.ReasonCsrfRequired,
		},
		{
			name:  "csrf requirement met",
			rule:  privilege.Rule{Public: pubmode.True, RequireCsrfHeader: true},
			req:   privilege.Requester{CsrfValid: true},
			allow: true,
		},
		{
			name:   "csrf requirement not met for anonymous",
			rule:   privilege.Rule{Public: pubmode.True, RequireCsrfHeader: true},
			req:    privilege.Requester{},
			allow:  false,
			reason: privilege.ReasonCsrfRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			denial := privilege.Check(tt.rule, tt.req)

			if tt.allow {
				require.Nil(t, denial)
				return
			}

			require.NotNil(t, denial)
			require.Equal(t, tt.reason, denial.Reason)
		})
	}
}

func Test_Merge(t *testing.T) {
	base := privilege.Rule{
		Public: pubmode.False,
		Users:  []uuid.UUID{userA},
	}

	pubTrue := pubmode.True
	docOverride := privilege.Partial{Public: &pubTrue}

	elemUsers := []uuid.UUID{userB}
	elemOverride := privilege.Partial{Users: &elemUsers}

	got := privilege.Merge(base, &docOverride, &elemOverride)

	require.True(t, got.Public.Equal(pubmode.True), "doc override must win on public")
	require.Equal(t, []uuid.UUID{userB}, got.Users, "elem override must win on users")
	require.Empty(t, got.Groups)

	t.Run("nil overrides are ignored", func(t *testing.T) {
		got := privilege.Merge(base, nil, nil)
		require.Equal(t, base, got)
	})

	t.Run("later override wins over earlier", func(t *testing.T) {
		pubOnly := pubmode.OnlyPublic
		got := privilege.Merge(base, &privilege.Partial{Public: &pubTrue}, &privilege.Partial{Public: &pubOnly})
		require.True(t, got.Public.Equal(pubmode.OnlyPublic))
	})

	t.Run("empty set override replaces, not appends", func(t *testing.T) {
		empty := []uuid.UUID{}
		got := privilege.Merge(base, &privilege.Partial{Users: &empty})
		require.Empty(t, got.Users)
	})
}
