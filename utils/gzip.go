package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsGzipEncoded reports whether data starts with the gzip magic bytes.
func IsGzipEncoded(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// Gunzip decompresses a gzip stream held in memory.
func Gunzip(data []byte) ([]byte, error) {
	if !IsGzipEncoded(data) {
		return nil, ErrNotGzip
	}
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	defer reader.Close()
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read gzip payload: %w", err)
	}
	return out, nil
}

// MaybeGunzip returns data unchanged unless it carries the gzip magic.
func MaybeGunzip(data []byte) ([]byte, error) {
	if !IsGzipEncoded(data) {
		return data, nil
	}
	return Gunzip(data)
}
