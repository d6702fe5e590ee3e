package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDate(t *testing.T) {
	at := time.Date(2025, time.January, 5, 14, 30, 0, 0, time.UTC)
	require.Equal(t, "05-01-2025", Date(&at))
	require.Equal(t, NotAvailable, Date(nil))
	require.Equal(t, NotAvailable, Date(&time.Time{}))
}

func TestTime(t *testing.T) {
	afternoon := time.Date(2025, time.January, 5, 14, 5, 59, 0, time.UTC)
	require.Equal(t, "02:05 PM", Time(&afternoon))

	morning := time.Date(2025, time.January, 5, 0, 7, 0, 0, time.UTC)
	require.Equal(t, "12:07 AM", Time(&morning))

	require.Equal(t, NotAvailable, Time(nil))
}

func TestDuration(t *testing.T) {
	start := time.Date(2025, time.January, 5, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want string
	}{
		{"sub-minute truncates to zero", start.Add(45 * time.Second), "0min"},
		{"exact minutes", start.Add(95 * time.Minute), "95min"},
		{"seconds truncated", start.Add(10*time.Minute + 59*time.Second), "10min"},
		{"multi-day stays in minutes", start.Add(25 * time.Hour), "1500min"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Duration(&start, &tc.end))
		})
	}

	require.Equal(t, NotAvailable, Duration(&start, nil))
	require.Equal(t, NotAvailable, Duration(nil, &start))
}

func TestINR(t *testing.T) {
	cases := []struct {
		name  string
		money float64
		want  string
	}{
		{"exact", 5000, "50"},
		{"rounds up", 5001, "51"},
		{"below one unit", 1, "1"},
		{"zero", 0, "0"},
		{"thousands grouped", 123456789, "1,234,568"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, INR(ptr(tc.money)))
		})
	}

	require.Equal(t, NotAvailable, INR(nil))
}
