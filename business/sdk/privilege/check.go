package privilege

import (
	"github.com/councl/backend/business/types/pubmode"
	"github.com/google/uuid"
)

// Requester is the normalized identity of an inbound request, built once per
// request and never persisted.
type Requester struct {
	SignedIn  bool
	UserID    uuid.UUID
	Groups    []uuid.UUID
	Admin     bool
	CsrfValid bool
}

// Reason identifies why a rule denied access. Callers must treat every
// reason identically when shaping responses; the codes exist for logging
// only, so a response never reveals why something is hidden.
type Reason string

// The set of denial reasons.
const (
	ReasonCsrfRequired       Reason = "csrf_required"
	ReasonNotPublic          Reason = "not_public"
	ReasonSignedInExcluded   Reason = "signed_in_excluded"
	ReasonExplicitlyExcluded Reason = "explicitly_excluded"
	ReasonNotListed          Reason = "not_listed"
)

// Denial reports a denied access check.
type Denial struct {
	Reason Reason
}

// Error implements the error interface.
func (d *Denial) Error() string {
	return "privilege denied: " + string(d.Reason)
}

// Check evaluates the rule against the requester and returns nil when access
// is allowed. The checks short-circuit on the first applicable denial:
//
//  1. An active CSRF requirement without a valid token denies everyone,
//     admins included. CSRF is a transport integrity property, not an
//     authorization one.
//  2. Admins pass every list check.
//  3. Signed-out requesters need public or onlyPublic.
//  4. Signed-in requesters are refused outright on onlyPublic rules, then
//     the deny lists veto before the allow lists grant.
func Check(rule Rule, req Requester) *Denial {
	if rule.RequireCsrfHeader && !req.CsrfValid {
		return &Denial{Reason: ReasonCsrfRequired}
	}

	if req.Admin {
		return nil
	}

	if !req.SignedIn {
		if rule.Public.Equal(pubmode.True) || rule.Public.Equal(pubmode.OnlyPublic) {
			return nil
		}
		return &Denial{Reason: ReasonNotPublic}
	}

	if rule.Public.Equal(pubmode.OnlyPublic) {
		return &Denial{Reason: ReasonSignedInExcluded}
	}

	if containsID(rule.ExcludeUsers, req.UserID) || intersectIDs(rule.ExcludeGroups, req.Groups) {
		return &Denial{Reason: ReasonExplicitlyExcluded}
	}

	if rule.Public.Equal(pubmode.True) || containsID(rule.Users, req.UserID) || intersectIDs(rule.Groups, req.Groups) {
		return nil
	}

	return &Denial{Reason: ReasonNotListed}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersectIDs(a []uuid.UUID, b []uuid.UUID) bool {
	for _, v := range a {
		if containsID(b, v) {
			return true
		}
	}
	return false
}
