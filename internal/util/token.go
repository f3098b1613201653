package util

import "github.com/google/uuid"

// NewToken returns an opaque session token.
func NewToken() string {
	return uuid.NewString()
}
