// Package taskid generates short, human-typeable task identities.
package taskid

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

// Size is the number of random bytes in an identity.
const Size = 4

var pattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// New returns Size random bytes as lowercase hex (8 characters).
// No uniqueness check is made against existing tasks.
// Panics if crypto/rand fails (system-level error, no recovery possible).
func New() string {
	var b [Size]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("task: crypto/rand failed (system error): " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// Valid reports whether s has the generated identity form.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
