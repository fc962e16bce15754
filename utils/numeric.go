package utils

import (
	"fmt"
	"math/big"
)

// MaxNumericCodeLength is the longest code NumericCode can return as an int64.
const MaxNumericCodeLength = 18

var ten = big.NewInt(10)

// digitBounds returns 10^(length-1) and 10^length-1.
func digitBounds(length int) (lo, hi *big.Int) {
	lo = new(big.Int).Exp(ten, big.NewInt(int64(length-1)), nil)
	hi = new(big.Int).Mul(lo, ten)
	hi.Sub(hi, big.NewInt(1))
	return
}

func numeric(length int) *big.Int {
	lo, hi := digitBounds(length)
	return randomInRange(lo, hi)
}

// NumericCode returns a uniform random integer with exactly length decimal digits.
func NumericCode(length int) (int64, error) {
	if length < 1 || length > MaxNumericCodeLength {
		return 0, fmt.Errorf("numeric code length %d not in [1, %d]: %w", length, MaxNumericCodeLength, ErrInvalidArgument)
	}
	return numeric(length).Int64(), nil
}

// NumericID is NumericCode rendered as a decimal string. It has no upper
// bound on length.
func NumericID(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("numeric id length %d: %w", length, ErrInvalidArgument)
	}
	return numeric(length).String(), nil
}
