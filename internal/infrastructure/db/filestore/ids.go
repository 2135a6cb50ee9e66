package filestore

import "github.com/google/uuid"

// newID returns a time-ordered UUIDv7, falling back to a random v4.
func newID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
