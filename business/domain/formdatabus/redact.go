package formdatabus

import "github.com/councl/backend/business/sdk/privilege"

// readableEntries applies field level redaction to a document. Each entry is
// checked against the document's effective read rule, merged with the
// entry's own override when the document carries entry privileges. Denied
// entries are dropped from the result, allowed ones keep their authored
// order number. An empty result means the requester may not see the
// document at all.
func readableEntries(fd FormData, main privilege.Rule, req privilege.Requester) []ReadEntry {
	entries := make([]ReadEntry, 0, len(fd.Entries))

	for _, ent := range fd.Entries {
		rule := main
		if fd.HasElemPrivileges && ent.Privileges != nil && ent.Privileges.Read != nil {
			rule = privilege.Merge(main, ent.Privileges.Read)
		}

		if privilege.Check(rule, req) != nil {
			continue
		}

		entries = append(entries, ReadEntry{
			ElemID:    ent.ElemID,
			OrderNr:   ent.OrderNr,
			Value:     ent.Value,
			ValueType: ent.ValueType,
		})
	}

	return entries
}
