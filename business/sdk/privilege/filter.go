package privilege

import (
	"strconv"

	"github.com/councl/backend/business/sdk/predicate"
	"github.com/councl/backend/business/types/pubmode"
)

// ReadFilterSignedOut builds the filter conditions a store applies over each
// candidate document's effective read rule for an anonymous requester. The
// rule must be public or onlyPublic, and any CSRF requirement satisfied.
func ReadFilterSignedOut(csrfValid bool) []predicate.Cond {
	return []predicate.Cond{
		predicate.Or{Conds: []predicate.Cond{
			predicate.Eq{Field: predicate.FieldPublic, Value: pubmode.True.String()},
			predicate.Eq{Field: predicate.FieldPublic, Value: pubmode.OnlyPublic.String()},
		}},
		csrfCond(csrfValid),
	}
}

// ReadFilterSignedIn builds the filter conditions for a signed-in requester.
// onlyPublic documents are always excluded. Unless the requester is an
// admin, they must appear in the rule's users or share a group, and must not
// be vetoed by either exclude set.
func ReadFilterSignedIn(req Requester) []predicate.Cond {
	conds := []predicate.Cond{
		predicate.NoneOf{Field: predicate.FieldPublic, Values: []string{pubmode.OnlyPublic.String()}},
		csrfCond(req.CsrfValid),
	}

	if req.Admin {
		return conds
	}

	userID := []string{req.UserID.String()}
	groups := make([]string, len(req.Groups))
	for i, g := range req.Groups {
		groups[i] = g.String()
	}

	conds = append(conds,
		predicate.Or{Conds: []predicate.Cond{
			predicate.AnyOf{Field: predicate.FieldUsers, Values: userID},
			predicate.AnyOf{Field: predicate.FieldGroups, Values: groups},
		}},
		predicate.NoneOf{Field: predicate.FieldExcludeUsers, Values: userID},
		predicate.NoneOf{Field: predicate.FieldExcludeGroups, Values: groups},
	)

	return conds
}

// csrfCond accepts documents that either do not require the CSRF header or
// whose requirement matches the request's CSRF validity.
func csrfCond(csrfValid bool) predicate.Cond {
	return predicate.Or{Conds: []predicate.Cond{
		predicate.Eq{Field: predicate.FieldRequireCsrf, Value: "false"},
		predicate.Eq{Field: predicate.FieldRequireCsrf, Value: strconv.FormatBool(csrfValid)},
	}}
}
