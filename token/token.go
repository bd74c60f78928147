package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// DefaultByteLength is the number of random bytes used when callers have no
// stronger requirement. It yields a 64-character token.
const DefaultByteLength = 32

// MaxByteLength bounds a single request so a bad caller value cannot allocate
// unbounded memory.
const MaxByteLength = 1 << 16

var (
	// ErrEntropyUnavailable is returned when the random source cannot be read.
	ErrEntropyUnavailable = errors.New("entropy source unavailable")
	// ErrInvalidLength is returned for byte lengths outside 1..MaxByteLength.
	ErrInvalidLength = errors.New("invalid token length")
	// ErrInvalidDigits is returned for numeric codes outside 6..10 digits.
	ErrInvalidDigits = errors.New("invalid code digits")
)

// Generate returns byteLength random bytes from crypto/rand rendered as
// lowercase hex. The result has exactly 2*byteLength characters.
func Generate(byteLength int) (string, error) {
	return GenerateFrom(rand.Reader, byteLength)
}

// GenerateFrom is Generate with an explicit entropy source. r must be a
// cryptographically secure reader in production code.
func GenerateFrom(r io.Reader, byteLength int) (string, error) {
	if byteLength <= 0 || byteLength > MaxByteLength {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, byteLength)
	}
	if r == nil {
		return "", ErrEntropyUnavailable
	}

	buf := make([]byte, byteLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	return hex.EncodeToString(buf), nil
}

// NumericCode returns a uniformly distributed decimal code of the given number
// of digits, suitable for out-of-band reset or confirmation codes.
func NumericCode(digits int) (string, error) {
	return NumericCodeFrom(rand.Reader, digits)
}

// NumericCodeFrom is NumericCode with an explicit entropy source.
func NumericCodeFrom(r io.Reader, digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", fmt.Errorf("%w: %d", ErrInvalidDigits, digits)
	}
	if r == nil {
		return "", ErrEntropyUnavailable
	}

	var b strings.Builder
	b.Grow(digits)

	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(r, ten)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}
