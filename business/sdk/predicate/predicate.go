// Package predicate provides a storage agnostic filter representation for
// privilege rules. A filter is a conjunction of conditions built from
// equality and membership primitives only, so every store (SQL, document
// store, or the in-memory matcher used in tests) can translate it without
// running any logic of its own.
package predicate

// Field names a single property of a privilege rule.
type Field string

// The set of rule fields a condition can reference.
const (
	FieldPublic        Field = "public"
	FieldRequireCsrf   Field = "requireCsrfHeader"
	FieldUsers         Field = "users"
	FieldGroups        Field = "groups"
	FieldExcludeUsers  Field = "excludeUsers"
	FieldExcludeGroups Field = "excludeGroups"
)

// IsSet reports whether the field holds a set of values rather than a
// scalar. Membership conditions on set fields test for intersection.
func (f Field) IsSet() bool {
	switch f {
	case FieldUsers, FieldGroups, FieldExcludeUsers, FieldExcludeGroups:
		return true
	}
	return false
}

// Cond represents a single filter condition. The concrete types form a
// closed sum: Eq, AnyOf, NoneOf, Or, And.
type Cond interface {
	cond()
}

// Eq matches when the scalar field equals the value.
type Eq struct {
	Field Field
	Value string
}

// AnyOf matches when the field's value set intersects Values. On a scalar
// field it matches when the scalar is one of Values.
type AnyOf struct {
	Field  Field
	Values []string
}

// NoneOf is the negation of AnyOf.
type NoneOf struct {
	Field  Field
	Values []string
}

// Or matches when at least one of its conditions matches.
type Or struct {
	Conds []Cond
}

// And matches when all of its conditions match.
type And struct {
	Conds []Cond
}

func (Eq) cond()     {}
func (AnyOf) cond()  {}
func (NoneOf) cond() {}
func (Or) cond()     {}
func (And) cond()    {}

// Doc provides read access to the rule a condition is evaluated against.
type Doc interface {
	Scalar(f Field) string
	Set(f Field) []string
}

// Match evaluates a condition against a document. An empty condition list
// inside And matches, inside Or it does not.
func Match(c Cond, d Doc) bool {
	switch ct := c.(type) {
	case Eq:
		return d.Scalar(ct.Field) == ct.Value

	case AnyOf:
		if ct.Field.IsSet() {
			return intersects(d.Set(ct.Field), ct.Values)
		}
		return contains(ct.Values, d.Scalar(ct.Field))

	case NoneOf:
		return !Match(AnyOf(ct), d)

	case Or:
		for _, sub := range ct.Conds {
			if Match(sub, d) {
				return true
			}
		}
		return false

	case And:
		for _, sub := range ct.Conds {
			if !Match(sub, d) {
				return false
			}
		}
		return true
	}

	return false
}

// MatchAll evaluates a list of conditions as a conjunction.
func MatchAll(conds []Cond, d Doc) bool {
	return Match(And{Conds: conds}, d)
}

func intersects(a []string, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

func contains(vs []string, v string) bool {
	for _, s := range vs {
		if s == v {
			return true
		}
	}
	return false
}
