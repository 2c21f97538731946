package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringArray maps a Go string slice onto a Postgres text[] column. The same
// literal form ({a,b}) is stored as plain text on SQLite.
type StringArray []string

func (a *StringArray) Scan(src any) error {
	if src == nil {
		*a = StringArray{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return a.parseFromString(v)
	case []byte:
		return a.parseFromString(string(v))
	default:
		return fmt.Errorf("StringArray: unsupported Scan type %T", src)
	}
}

func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, item := range a {
		parts = append(parts, quoteElement(item))
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains reports whether value is present in the array.
func (a StringArray) Contains(value string) bool {
	for _, item := range a {
		if item == value {
			return true
		}
	}
	return false
}

// Intersects reports whether the two arrays share at least one element.
func (a StringArray) Intersects(other []string) bool {
	if len(a) == 0 || len(other) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	for _, item := range other {
		if _, ok := set[item]; ok {
			return true
		}
	}
	return false
}

func (a *StringArray) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "{}" || s == "" {
		*a = StringArray{}
		return nil
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return fmt.Errorf("StringArray: malformed literal %q", s)
	}
	body := s[1 : len(s)-1]

	out := []string{}
	var current strings.Builder
	inQuotes := false
	escaped := false
	quoted := false
	for _, r := range body {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && inQuotes:
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case r == ',' && !inQuotes:
			out = append(out, finishElement(current.String(), quoted))
			current.Reset()
			quoted = false
		default:
			current.WriteRune(r)
		}
	}
	if inQuotes {
		return fmt.Errorf("StringArray: unterminated quote in %q", s)
	}
	out = append(out, finishElement(current.String(), quoted))
	*a = StringArray(out)
	return nil
}

func finishElement(raw string, quoted bool) string {
	if quoted {
		return raw
	}
	return strings.TrimSpace(raw)
}

func quoteElement(item string) string {
	escaped := strings.ReplaceAll(item, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
