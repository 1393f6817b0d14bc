package requests

import (
	"fmt"
	"time"

	"github.com/Ankitshrma25/IMS/pkg/apperrors"
)

const (
	refPrefix     = "REQ"
	refMaxCounter = 9999
)

// FormatRequestNumber renders the human-facing reference REQ-YYYYMMDD-NNNN.
// The counter comes from the per-day sequence row, so numbers are unique
// without a probe loop; the four-digit field bounds one day at 9999
// requests.
func FormatRequestNumber(day time.Time, counter int) (string, error) {
	if counter < 1 || counter > refMaxCounter {
		return "", apperrors.NewDuplicateError("request number space exhausted for %s (counter %d)",
			day.Format("2006-01-02"), counter)
	}

	return fmt.Sprintf("%s-%s-%04d", refPrefix, day.Format("20060102"), counter), nil
}
