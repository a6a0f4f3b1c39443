// Package textutil provides text validation for task fields.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tasklog/tasklog/pkg/errclass"
)

// Normalize returns s in Unicode NFC form.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// RuneLen counts characters of s after NFC normalization, so a decomposed
// "é" counts as one character, as it displays.
func RuneLen(s string) int {
	return utf8.RuneCountInString(Normalize(s))
}

// ValidateLength rejects values longer than max characters.
// A max of zero or less disables the check.
func ValidateLength(field, value string, max int) error {
	if max <= 0 {
		return nil
	}
	if n := RuneLen(value); n > max {
		return errclass.ErrFieldInvalid.WithMessagef("%s exceeds %d chars (%d chars given)", field, max, n)
	}
	return nil
}

// ValidateRequired rejects empty or whitespace-only values.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errclass.ErrFieldInvalid.WithMessagef("%s must not be empty", field)
	}
	return nil
}

// ValidateUTF8 rejects values that are not valid UTF-8. JSON encoding would
// otherwise replace the offending bytes and store a different value.
func ValidateUTF8(field, value string) error {
	if !utf8.ValidString(value) {
		return errclass.ErrFieldInvalid.WithMessagef("%s is not valid UTF-8: %q", field, value)
	}
	return nil
}

// ValidateSingleLine rejects control characters, including line breaks.
func ValidateSingleLine(field, value string) error {
	for _, r := range value {
		if unicode.IsControl(r) {
			return errclass.ErrFieldInvalid.WithMessagef("%s must not contain control characters: %q", field, value)
		}
	}
	return nil
}
