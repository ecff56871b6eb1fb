package predicate_test

import (
	"testing"

	"github.com/councl/backend/business/sdk/predicate"
	"github.com/stretchr/testify/require"
)

// ruleDoc is a minimal Doc for exercising the matcher.
type ruleDoc struct {
	scalars map[predicate.Field]string
	sets    map[predicate.Field][]string
}

func (d ruleDoc) Scalar(f predicate.Field) string {
	return d.scalars[f]
}

func (d ruleDoc) Set(f predicate.Field) []string {
	return d.sets[f]
}

func Test_Match(t *testing.T) {
	doc := ruleDoc{
		scalars: map[predicate.Field]string{
			predicate.FieldPublic:      "false",
			predicate.FieldRequireCsrf: "true",
		},
		sets: map[predicate.Field][]string{
			predicate.FieldUsers:  {"a", "b"},
			predicate.FieldGroups: {},
		},
	}

	tests := []struct {
		name  string
		cond  predicate.Cond
		match bool
	}{
		{"eq scalar match", predicate.Eq{Field: predicate.FieldPublic, Value: "false"}, true},
		{"eq scalar mismatch", predicate.Eq{Field: predicate.FieldPublic, Value: "true"}, false},
		{"anyOf set intersection", predicate.AnyOf{Field: predicate.FieldUsers, Values: []string{"b", "z"}}, true},
		{"anyOf set disjoint", predicate.AnyOf{Field: predicate.FieldUsers, Values: []string{"z"}}, false},
		{"anyOf against empty set", predicate.AnyOf{Field: predicate.FieldGroups, Values: []string{"a"}}, false},
		{"anyOf with empty values", predicate.AnyOf{Field: predicate.FieldUsers, Values: nil}, false},
		{"anyOf scalar membership", predicate.AnyOf{Field: predicate.FieldPublic, Values: []string{"false", "onlyPublic"}}, true},
		{"noneOf negates intersection", predicate.NoneOf{Field: predicate.FieldUsers, Values: []string{"a"}}, false},
		{"noneOf on empty set", predicate.NoneOf{Field: predicate.FieldGroups, Values: []string{"a"}}, true},
		{"or short-circuits on first match", predicate.Or{Conds: []predicate.Cond{
			predicate.Eq{Field: predicate.FieldPublic, Value: "true"},
			predicate.Eq{Field: predicate.FieldRequireCsrf, Value: "true"},
		}}, true},
		{"empty or never matches", predicate.Or{}, false},
		{"empty and always matches", predicate.And{}, true},
		{"and needs every condition", predicate.And{Conds: []predicate.Cond{
			predicate.Eq{Field: predicate.FieldPublic, Value: "false"},
			predicate.Eq{Field: predicate.FieldRequireCsrf, Value: "false"},
		}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.match, predicate.Match(tt.cond, doc))
		})
	}
}

func Test_MatchAll(t *testing.T) {
	doc := ruleDoc{
		scalars: map[predicate.Field]string{predicate.FieldPublic: "true"},
	}

	require.True(t, predicate.MatchAll(nil, doc))
	require.True(t, predicate.MatchAll([]predicate.Cond{
		predicate.Eq{Field: predicate.FieldPublic, Value: "true"},
	}, doc))
	require.False(t, predicate.MatchAll([]predicate.Cond{
		predicate.Eq{Field: predicate.FieldPublic, Value: "true"},
		predicate.Eq{Field: predicate.FieldPublic, Value: "false"},
	}, doc))
}
