package order

import (
	"fmt"
	"time"

	"github.com/mvindas/salon-store/random"
)

// Number builds a human-readable order number: ORD-<unix ms>-<9 random
// uppercase alphanumerics>. The suffix carries enough entropy that two
// concurrent submissions are not expected to collide; the database still
// enforces uniqueness and callers retry with a fresh number if it ever
// happens.
func Number() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), random.StringUpper(9))
}
