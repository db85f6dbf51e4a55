package domain

import (
	"strings"
	"unique"
)

// Ident names a matrix entry or a package. Equal names share one interned handle,
// so Idents compare with == and work as map keys.
type Ident struct {
	h unique.Handle[string]
}

// NewIdent interns s without its surrounding whitespace.
func NewIdent(s string) Ident {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ident{}
	}
	return Ident{h: unique.Make(s)}
}

// String returns the name. The zero Ident is "".
func (id Ident) String() string {
	if id.IsZero() {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether the name is empty.
func (id Ident) IsZero() bool {
	return id == (Ident{})
}

// MarshalText implements encoding.TextMarshaler.
func (id Ident) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Ident) UnmarshalText(text []byte) error {
	*id = NewIdent(string(text))
	return nil
}
