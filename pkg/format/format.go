// Package format holds the fixed-contract display helpers shared with the
// dashboard: dates as dd-MM-yyyy, times as hh:mm AM/PM, durations as total
// minutes, and rupee amounts converted to whole dollars. Nil input always
// yields "N/A".
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// NotAvailable is returned for nil/zero inputs.
const NotAvailable = "N/A"

// Date renders a timestamp as dd-MM-yyyy.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format("02-01-2006")
}

// Time renders the clock portion as hh:mm AM/PM.
func Time(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format("03:04 PM")
}

// Duration renders the interval between two timestamps as total minutes,
// e.g. "95min". Seconds are truncated.
func Duration(start, end *time.Time) string {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return NotAvailable
	}
	minutes := int(end.Sub(*start).Minutes())
	return fmt.Sprintf("%dmin", minutes)
}

// inrToUSDRate is the fixed conversion used by the dashboard.
const inrToUSDRate = 100

// INR converts a rupee amount to whole dollars at the fixed rate, rounding
// up, and groups thousands with commas.
func INR(money *float64) string {
	if money == nil {
		return NotAvailable
	}
	usd := int64(math.Ceil(*money / inrToUSDRate))
	return groupThousands(usd)
}

func groupThousands(v int64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if negative {
		return "-" + s
	}
	return s
}
