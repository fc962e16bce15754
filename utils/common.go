// Package utils groups small stateless helpers: a serialized-format sniffer,
// secure random generators and a gzip header check.
package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
)

const (
	DefaultNumericCodeLength = 10
	DefaultNumericIDLength   = 6
	DefaultPasswordLength    = 8
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotGzip         = errors.New("data is not gzip encoded")
)

// RandId returns a 40 character hex id derived from a fresh v4 UUID.
func RandId() string {
	data := NewUUIDv4Bytes()
	hash := sha1.New()
	hash.Write(data[:])
	return hex.EncodeToString(hash.Sum(nil))
}
