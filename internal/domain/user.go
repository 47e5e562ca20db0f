// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxDisplayNameLen = 36
	defaultNamePrefix = "User "
)

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

// ConnID identifies one signaling connection. Assigned by the transport,
// opaque to everything else.
type ConnID string

// DefaultDisplayName is what a participant is called until it picks a name.
func DefaultDisplayName(id ConnID) string {
	s := string(id)
	if len(s) > 8 {
		s = s[:8]
	}
	return defaultNamePrefix + s
}

// ValidateDisplayName trims the name and checks its length.
func ValidateDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrDisplayNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return "", ErrDisplayNameTooLong
	}
	return name, nil
}

// ResolveDisplayName never fails: empty names fall back to the default and
// long ones are cut.
func ResolveDisplayName(id ConnID, name string) string {
	v, err := ValidateDisplayName(name)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrDisplayNameTooLong):
		return string([]rune(strings.TrimSpace(name))[:MaxDisplayNameLen])
	default:
		return DefaultDisplayName(id)
	}
}
