package db

import (
	"fmt"

	"github.com/aurawell/aurawell-web/internal/analytics"
)

// unavailable wraps a failed store query so the analytics engine (and the
// HTTP layer above it) can classify it with errors.Is without depending on
// driver error types.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", analytics.ErrDataUnavailable, op, err)
}
