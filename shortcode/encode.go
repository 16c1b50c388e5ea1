// Package shortcode renders IDs as fixed-length base-62 strings.
//
// Encode keeps only the least significant symbols when a number doesn't fit
// in the requested length, so distinct numbers may share a code. A 63-bit ID
// needs up to LosslessLength symbols; at DefaultLength most of the timestamp
// is dropped. Callers that store codes must treat them as candidates and
// check for collisions, or ask for LosslessLength.
package shortcode

import (
	"errors"
	"math"
	"strings"

	"github.com/jxskiss/base62"
)

const (
	Alphabet       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	DefaultLength  = 7
	LosslessLength = 11 // 62^11 > 2^64
)

var (
	ErrInvalidCode = errors.New("shortcode: invalid code")
)

var encoding = base62.NewEncoding(Alphabet)

// Largest code that fits in a uint64. Alphabet is in ASCII order, so
// codes of equal length compare like the numbers they encode.
var maxCode = EncodeFull(math.MaxUint64)

// EncodeFull returns the minimal base-62 representation of number.
func EncodeFull(number uint64) string {
	if number == 0 {
		return Alphabet[:1]
	}
	return string(encoding.FormatUint(number))
}

// Encode returns a base-62 string of exactly length symbols. Shorter
// representations are left-padded with the zero symbol, longer ones keep
// only their last length symbols. Returns "" if length is not positive.
func Encode(number uint64, length int) string {

	if length <= 0 {
		return ""
	}

	code := EncodeFull(number)

	if len(code) < length {
		return strings.Repeat(Alphabet[:1], length-len(code)) + code
	}

	return code[len(code)-length:]
}

// Truncates tells whether Encode(number, length) loses information.
func Truncates(number uint64, length int) bool {
	return len(EncodeFull(number)) > length
}

// Decode parses a code produced by Encode or EncodeFull. For truncated codes
// it returns the number formed by the kept symbols only.
func Decode(code string) (uint64, error) {

	if !Valid(code) {
		return 0, ErrInvalidCode
	}

	trimmed := strings.TrimLeft(code, Alphabet[:1])
	if trimmed == "" {
		return 0, nil
	}

	if len(trimmed) > LosslessLength {
		return 0, ErrInvalidCode
	}

	if len(trimmed) == len(maxCode) && trimmed > maxCode {
		return 0, ErrInvalidCode
	}

	number, err := encoding.ParseUint([]byte(trimmed))
	if err != nil {
		return 0, ErrInvalidCode
	}

	return number, nil
}

// Valid tells whether code is non-empty and made of alphabet symbols only.
func Valid(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
