// Package privilege provides the access rule model and the evaluation logic
// deciding whether a requester may read or write a piece of form data.
package privilege

import (
	"github.com/councl/backend/business/sdk/predicate"
	"github.com/councl/backend/business/types/pubmode"
	"github.com/google/uuid"
)

// Rule describes a complete access rule attached to a form, a form data
// document, or a single entry within one. The deny sets always win over the
// allow sets.
type Rule struct {
	Public            pubmode.Mode `json:"public"`
	Users             []uuid.UUID  `json:"users"`
	Groups            []uuid.UUID  `json:"groups"`
	ExcludeUsers      []uuid.UUID  `json:"excludeUsers"`
	ExcludeGroups     []uuid.UUID  `json:"excludeGroups"`
	RequireCsrfHeader bool         `json:"requireCsrfHeader"`
}

// Partial is a rule override where only the set fields take effect. Document
// and entry level rules are stored as partials over the form's defaults.
type Partial struct {
	Public            *pubmode.Mode `json:"public,omitempty"`
	Users             *[]uuid.UUID  `json:"users,omitempty"`
	Groups            *[]uuid.UUID  `json:"groups,omitempty"`
	ExcludeUsers      *[]uuid.UUID  `json:"excludeUsers,omitempty"`
	ExcludeGroups     *[]uuid.UUID  `json:"excludeGroups,omitempty"`
	RequireCsrfHeader *bool         `json:"requireCsrfHeader,omitempty"`
}

// Merge applies the overrides to the base rule left to right. A field set in
// a later override wins over the same field in an earlier one.
func Merge(base Rule, overrides ...*Partial) Rule {
	r := base

	for _, ov := range overrides {
		if ov == nil {
			continue
		}
		if ov.Public != nil {
			r.Public = *ov.Public
		}
		if ov.Users != nil {
			r.Users = *ov.Users
		}
		if ov.Groups != nil {
			r.Groups = *ov.Groups
		}
		if ov.ExcludeUsers != nil {
			r.ExcludeUsers = *ov.ExcludeUsers
		}
		if ov.ExcludeGroups != nil {
			r.ExcludeGroups = *ov.ExcludeGroups
		}
		if ov.RequireCsrfHeader != nil {
			r.RequireCsrfHeader = *ov.RequireCsrfHeader
		}
	}

	return r
}

// =============================================================================
// predicate.Doc support so the in-memory matcher can evaluate the same
// conditions the stores translate.

// Scalar implements the predicate.Doc interface.
func (r Rule) Scalar(f predicate.Field) string {
	switch f {
	case predicate.FieldPublic:
		if r.Public == (pubmode.Mode{}) {
			return pubmode.False.String()
		}
		return r.Public.String()

	case predicate.FieldRequireCsrf:
		if r.RequireCsrfHeader {
			return "true"
		}
		return "false"
	}

	return ""
}

// Set implements the predicate.Doc interface.
func (r Rule) Set(f predicate.Field) []string {
	var ids []uuid.UUID

	switch f {
	case predicate.FieldUsers:
		ids = r.Users
	case predicate.FieldGroups:
		ids = r.Groups
	case predicate.FieldExcludeUsers:
		ids = r.ExcludeUsers
	case predicate.FieldExcludeGroups:
		ids = r.ExcludeGroups
	default:
		return nil
	}

	set := make([]string, len(ids))
	for i, id := range ids {
		set[i] = id.String()
	}

	return set
}
