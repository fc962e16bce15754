package utils

import (
	"fmt"
	"math/big"
	"strings"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var passwordAlphabetSize = big.NewInt(int64(len(passwordAlphabet)))

// Password returns length characters drawn independently and uniformly from [a-zA-Z0-9].
func Password(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("password length %d: %w", length, ErrInvalidArgument)
	}
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(passwordAlphabet[randomBelow(passwordAlphabetSize).Int64()])
	}
	return sb.String(), nil
}
