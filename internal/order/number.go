package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const numberPrefix = "SW"

// NumberPrefix returns the month bucket for order numbers, e.g. "SW-2509".
func NumberPrefix(t time.Time) string {
	return fmt.Sprintf("%s-%02d%02d", numberPrefix, t.Year()%100, int(t.Month()))
}

// NextNumber computes the order number that follows last within the given
// month prefix. An empty or foreign last starts the sequence at 0001. The
// sequence widens past 9999 instead of wrapping.
func NextNumber(prefix, last string) string {
	seq := 0
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1)
}
