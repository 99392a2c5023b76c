package barcode

import (
	"fmt"
	"strings"
)

// Length is the fixed width of every generated barcode.
const Length = 12

const digitSpace = 1_000_000_000_000 // 10^12

// Candidate maps an opaque identifier (typically a UUID) and a retry attempt
// to a 12-digit numeric string.
//
// The identifier's separator characters are stripped, then the remaining
// characters are folded into a 32-bit signed accumulator with a polynomial
// rolling hash (h = h*31 + char). The wraparound at each step is intentional:
// historical barcodes were produced with 32-bit integer arithmetic and must
// stay reproducible, so the accumulator is int32, not a wider type.
func Candidate(identifier string, attempt int) string {
	var h int32
	for _, c := range stripSeparators(identifier) {
		h = h*31 + int32(c)
	}

	v := int64(h)
	if attempt > 0 {
		v = (v + int64(attempt)) % digitSpace
	}
	if v < 0 {
		v = -v
	}

	s := fmt.Sprintf("%0*d", Length, v)
	if len(s) > Length {
		s = s[len(s)-Length:]
	}
	return s
}

// IsBarcode reports whether s has the shape of a generated barcode:
// exactly 12 ASCII digits.
func IsBarcode(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsCode reports whether s is a well-formed stored code: exactly 12
// alphanumeric characters. Generated codes are all digits; fallback codes
// carry letters from the product's UUID, so letters are accepted here.
func IsCode(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		default:
			return -1
		}
	}, s)
}
