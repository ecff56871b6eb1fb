package formdatadb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/councl/backend/business/domain/formdatabus"
	"github.com/councl/backend/business/sdk/predicate"
	"github.com/councl/backend/business/sdk/sqldb/dbarray"
)

// readRule is the effective read rule of a row: the form's default read
// rule overlaid with the row's own read override, keys of the override
// winning. The jsonb concatenation mirrors privilege.Merge.
const readRule = `(CAST(:default_read AS jsonb) || COALESCE(privileges->'read', '{}'::jsonb))`

func (s *Store) applyFilter(filter formdatabus.QueryFilter, data map[string]any, buf *bytes.Buffer) error {
	wc := []string{"form_id = :form_id"}
	data["form_id"] = filter.FormID.String()

	if len(filter.DataIDs) > 0 {
		ids := make(dbarray.String, len(filter.DataIDs))
		for i, id := range filter.DataIDs {
			ids[i] = id.String()
		}
		data["data_ids"] = ids
		wc = append(wc, "data_id = ANY(CAST(:data_ids AS uuid[]))")
	}

	if len(filter.Read) > 0 {
		def, err := json.Marshal(filter.DefaultRead)
		if err != nil {
			return fmt.Errorf("marshal default read rule: %w", err)
		}
		data["default_read"] = string(def)

		var n int
		for _, cond := range filter.Read {
			clause, err := condSQL(cond, data, &n)
			if err != nil {
				return err
			}
			wc = append(wc, clause)
		}
	}

	buf.WriteString(" WHERE ")
	buf.WriteString(strings.Join(wc, " AND "))

	return nil
}

// condSQL translates one predicate condition into a SQL clause over the
// effective read rule, registering its values as named parameters.
func condSQL(c predicate.Cond, data map[string]any, n *int) (string, error) {
	switch ct := c.(type) {
	case predicate.Eq:
		p := nextParam(n)
		data[p] = ct.Value
		return fmt.Sprintf("%s = :%s", scalarExpr(ct.Field), p), nil

	case predicate.AnyOf:
		p := nextParam(n)
		data[p] = dbarray.String(ct.Values)
		if ct.Field.IsSet() {
			return fmt.Sprintf("jsonb_exists_any(%s, CAST(:%s AS text[]))", setExpr(ct.Field), p), nil
		}
		return fmt.Sprintf("%s = ANY(CAST(:%s AS text[]))", scalarExpr(ct.Field), p), nil

	case predicate.NoneOf:
		inner, err := condSQL(predicate.AnyOf(ct), data, n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", inner), nil

	case predicate.Or:
		return joinConds(ct.Conds, " OR ", "FALSE", data, n)

	case predicate.And:
		return joinConds(ct.Conds, " AND ", "TRUE", data, n)
	}

	return "", fmt.Errorf("unknown condition type %T", c)
}

func joinConds(conds []predicate.Cond, sep string, empty string, data map[string]any, n *int) (string, error) {
	if len(conds) == 0 {
		return empty, nil
	}

	clauses := make([]string, len(conds))
	for i, cond := range conds {
		clause, err := condSQL(cond, data, n)
		if err != nil {
			return "", err
		}
		clauses[i] = clause
	}

	return fmt.Sprintf("(%s)", strings.Join(clauses, sep)), nil
}

// scalarExpr reads a scalar rule field as text, normalized to the value the
// in-memory matcher would see for an unset field.
func scalarExpr(f predicate.Field) string {
	return fmt.Sprintf("COALESCE(NULLIF(%s->>'%s', ''), 'false')", readRule, f)
}

// setExpr reads a set rule field as a jsonb array.
func setExpr(f predicate.Field) string {
	return fmt.Sprintf("COALESCE(%s->'%s', '[]'::jsonb)", readRule, f)
}

func nextParam(n *int) string {
	*n++
	return fmt.Sprintf("priv%d", *n)
}
