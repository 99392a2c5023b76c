package barcode

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxAttempts bounds the collision-retry loop. With a 10^12 code space the
// bound is never reached in practice.
const maxAttempts = 100

// Index is the existence lookup the allocator needs: whether a barcode is
// already held by a product other than the one being created.
type Index interface {
	BarcodeTaken(code string, excluding uuid.UUID) (bool, error)
}

// Allocator produces a barcode for a newly persisted product that does not
// collide with any other product's barcode. The existence check is an
// optimization to avoid needless write failures; the unique index on the
// barcode column remains the authoritative guard against concurrent
// allocations.
type Allocator struct {
	index Index
	now   func() time.Time
}

func NewAllocator(index Index) *Allocator {
	return &Allocator{index: index, now: time.Now}
}

// Allocate returns a free candidate for the product, retrying with an
// incrementing attempt counter on collision. If every attempt collides it
// falls back to a composite of the product ID and the current time; that
// fallback carries no uniqueness guarantee and callers must still treat the
// result as best effort. A lookup failure propagates as a creation failure.
func (a *Allocator) Allocate(productID uuid.UUID) (string, error) {
	id := productID.String()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := Candidate(id, attempt)

		taken, err := a.index.BarcodeTaken(candidate, productID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return a.fallback(id), nil
}

// fallback concatenates the first 6 alphanumeric characters of the product ID
// with the last 6 digits of the epoch-millis clock, normalized to 12
// characters. The UUID part is hex, so the result may contain letters.
func (a *Allocator) fallback(id string) string {
	millis := strconv.FormatInt(a.now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}

	uuidPart := stripSeparators(id)
	if len(uuidPart) > 6 {
		uuidPart = uuidPart[:6]
	}

	code := uuidPart + millis
	if len(code) < Length {
		code = strings.Repeat("0", Length-len(code)) + code
	}
	if len(code) > Length {
		code = code[len(code)-Length:]
	}
	return code
}
