// Package keyname validates object keys proposed in a rename.
package keyname

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonedit/internal/errors"
)

const (
	MsgEmpty   = "Key cannot be empty"
	MsgInvalid = "Key must be a valid identifier"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate trims key and checks it is identifier shaped. It returns the
// trimmed key, or a validation error naming the violation.
func Validate(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.NewValidationError(MsgEmpty)
	}
	if !identifierRegex.MatchString(trimmed) {
		return "", errors.NewValidationError(MsgInvalid)
	}
	return trimmed, nil
}

// Valid reports whether key passes Validate.
func Valid(key string) bool {
	_, err := Validate(key)
	return err == nil
}

// Suggest derives an identifier from an invalid key, e.g. "first-name"
// becomes "firstName". It reports false when nothing usable comes out.
func Suggest(key string) (string, bool) {
	candidate := strcase.ToLowerCamel(strings.TrimSpace(key))
	if candidate != "" && !identifierRegex.MatchString(candidate) {
		candidate = "_" + candidate
	}
	if !identifierRegex.MatchString(candidate) || candidate == strings.TrimSpace(key) {
		return "", false
	}
	return candidate, true
}
