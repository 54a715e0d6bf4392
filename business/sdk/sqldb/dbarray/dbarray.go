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
func (s String) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}

	elems := make([]string, len(s))
	for i, v := range s {
		elems[i] = quoteElement(v)
	}

	return "{" + strings.Join(elems, ",") + "}", nil
}

// Scan implements the sql.Scanner interface.
func (s *String) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unable to scan type %T into dbarray.String", src)
	}

	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return fmt.Errorf("malformed array literal: %q", raw)
	}

	body := raw[1 : len(raw)-1]
	if body == "" {
		*s = String{}
		return nil
	}

	*s = parseElements(body)

	return nil
}

func quoteElement(v string) string {
	if v == "" || strings.ContainsAny(v, `",{} \`) {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		return `"` + v + `"`
	}

	return v
}

func parseElements(body string) []string {
	var elems []string
	var sb strings.Builder
	var quoted, escaped bool

	for _, r := range body {
		switch {
		case escaped:
			sb.WriteRune(r)
			escaped = false

		case r == '\\':
			escaped = true

		case r == '"':
			quoted = !quoted

		case r == ',' && !quoted:
			elems = append(elems, sb.String())
			sb.Reset()

		default:
			sb.WriteRune(r)
		}
	}
	elems = append(elems, sb.String())

	return elems
}
