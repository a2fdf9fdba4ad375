package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// Length is the number of digits in a generated code.
const Length = 6

// New returns a uniformly random numeric code in [100000, 999999].
// The range guarantees a fixed six-digit representation, so no
// zero-padding is ever needed. Codes carry no uniqueness guarantee;
// they are always scoped by an identity lookup, never matched alone.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
