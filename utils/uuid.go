package utils

import (
	"github.com/google/uuid"
)

// NewUUIDv4Bytes returns a random RFC 4122 version 4 UUID.
func NewUUIDv4Bytes() (id uuid.UUID) {
	untilSuccess(func() (err error) {
		id, err = uuid.NewRandomFromReader(Reader)
		return
	})
	return
}

// NewUUIDv4 returns a random UUID formatted as lowercase 8-4-4-4-12 hex.
func NewUUIDv4() string {
	return NewUUIDv4Bytes().String()
}
