package entity

import (
	"fmt"
	"strconv"
)

// ID is a snowflake-assigned 64-bit key. It marshals to a decimal JSON
// string because the values exceed JavaScript's safe integer range.
type ID int64

// Zero reports whether the ID is unassigned.
func (id ID) Zero() bool { return id == 0 }

// String returns the decimal representation.
func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// MarshalJSON renders the ID as a quoted decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, id.String()), nil
}

// UnmarshalJSON accepts both quoted and bare decimal forms.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("entity: invalid id %q: %w", s, err)
	}
	*id = ID(v)
	return nil
}

// ParseID parses a decimal ID from a path or query parameter.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("entity: invalid id %q", s)
	}
	return ID(v), nil
}
