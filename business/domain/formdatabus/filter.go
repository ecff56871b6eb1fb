package formdatabus

import (
	"github.com/councl/backend/business/sdk/predicate"
	"github.com/councl/backend/business/sdk/privilege"
	"github.com/google/uuid"
)

// QueryFilter tells a store which documents of a form to return. Read holds
// the requester's read predicate; stores must evaluate it against each
// document's effective read rule, the form's DefaultRead merged with the
// document's own read override.
type QueryFilter struct {
	FormID      uuid.UUID
	DataIDs     []uuid.UUID
	Read        []predicate.Cond
	DefaultRead privilege.Rule
}

// Eligible reports whether a document satisfies the filter. It defines the
// contract stores implement in their own query language.
func (qf QueryFilter) Eligible(fd FormData) bool {
	if fd.FormID != qf.FormID {
		return false
	}

	if len(qf.DataIDs) > 0 {
		var found bool
		for _, id := range qf.DataIDs {
			if id == fd.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	rule := privilege.Merge(qf.DefaultRead, fd.ReadPartial())
	return predicate.MatchAll(qf.Read, rule)
}
