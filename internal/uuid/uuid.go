// Package uuid provides UUID v4 generation and validation for session and
// record identities.
package uuid

import (
	"regexp"

	"github.com/google/uuid"
)

// UUID v4 format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
// where y is one of [8, 9, a, b] (variant bits)
var uuidV4Regex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// New generates a new UUID v4.
func New() string {
	return uuid.New().String()
}

// IsValid checks if a string is a valid UUID v4.
func IsValid(s string) bool {
	return uuidV4Regex.MatchString(s)
}
