// Package dbarray provides support for postgres arrays.
package dbarray

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// String represents a postgres text array.
type String []string

// Value implements the driver.Valuer interface.
func (a String) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}

	parts := make([]string, len(a))
	for i, s := range a {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		parts[i] = `"` + s + `"`
	}

	return "{" + strings.Join(parts, ",") + "}", nil
}

// Scan implements the sql.Scanner interface.
func (a *String) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil

	case []byte:
		return a.scanString(string(v))

	case string:
		return a.scanString(v)
	}

	return fmt.Errorf("dbarray: cannot convert %T to String", src)
}

func (a *String) scanString(src string) error {
	if len(src) < 2 || src[0] != '{' || src[len(src)-1] != '}' {
		return fmt.Errorf("dbarray: malformed array literal %q", src)
	}

	inner := src[1 : len(src)-1]
	if inner == "" {
		*a = String{}
		return nil
	}

	var (
		elems   []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)

	flush := func() {
		elems = append(elems, cur.String())
		cur.Reset()
	}

	for _, r := range inner {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false

		case r == '\\':
			escaped = true

		case r == '"':
			quoted = !quoted

		case r == ',' && !quoted:
			flush()

		default:
			cur.WriteRune(r)
		}
	}
	flush()

	*a = elems

	return nil
}
