package railway

import (
	"errors"
	"fmt"

	"github.com/danpilch/railpal/internal/api/railradar"
)

// Failure kinds. Callers match them with errors.Is and map them to their own
// presentation text.
var (
	ErrNotFound             = errors.New("not found")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrMalformedResponse    = errors.New("malformed upstream response")
	ErrScheduleNotFound     = errors.New("train schedule not found")
	ErrReconciliationFailed = errors.New("reconciliation failed")
)

// upstreamError tags a client error with its failure kind while keeping the
// cause in the chain.
func upstreamError(op string, err error) error {
	kind := ErrUpstreamUnavailable
	if errors.Is(err, railradar.ErrDecode) {
		kind = ErrMalformedResponse
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
