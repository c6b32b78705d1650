package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReactivatedCount(t *testing.T) {
	g := NewGrouper(nil)
	cfg := DefaultConfig()
	day := func(n int) string {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n).Format("2006-01-02")
	}

	tests := []struct {
		name   string
		orders []RawOrder
		want   int
	}{
		{
			"gap over threshold counts",
			[]RawOrder{
				{Address: "a", Date: day(0)},
				{Address: "a", Date: day(100)},
			},
			1,
		},
		{
			"steady cadence does not",
			[]RawOrder{
				{Address: "a", Date: day(0)},
				{Address: "a", Date: day(40)},
				{Address: "a", Date: day(70)},
			},
			0,
		},
		{
			"gap at exactly the threshold does not",
			[]RawOrder{
				{Address: "a", Date: day(0)},
				{Address: "a", Date: day(75)},
			},
			0,
		},
		{
			"one order is never a reactivation",
			[]RawOrder{
				{Address: "a", Date: day(0)},
			},
			0,
		},
		{
			"credited once despite multiple gaps",
			[]RawOrder{
				{Address: "a", Date: day(0)},
				{Address: "a", Date: day(100)},
				{Address: "a", Date: day(300)},
			},
			1,
		},
		{
			"out of order input still finds the gap",
			[]RawOrder{
				{Address: "a", Date: day(100)},
				{Address: "a", Date: day(0)},
			},
			1,
		},
		{
			"independent keys counted separately",
			[]RawOrder{
				{Address: "a", Date: day(0)},
				{Address: "a", Date: day(100)},
				{Address: "b", Date: day(0)},
				{Address: "b", Date: day(200)},
			},
			2,
		},
		{
			"unparsable dates drop off the timeline",
			[]RawOrder{
				{Address: "a", Date: "no idea"},
				{Address: "a", Date: day(0)},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReactivatedCount(tt.orders, g, cfg))
		})
	}
}

func TestNewCustomerCount(t *testing.T) {
	g := NewGrouper(nil)
	cfg := DefaultConfig()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	orders := []RawOrder{
		// First order 10 days ago: new.
		{Address: "fresh", Date: now.AddDate(0, 0, -10).Format("2006-01-02")},
		// First order 200 days ago, even with a recent one: not new.
		{Address: "veteran", Date: now.AddDate(0, 0, -200).Format("2006-01-02")},
		{Address: "veteran", Date: now.AddDate(0, 0, -5).Format("2006-01-02")},
		// No parseable date at all: not counted.
		{Address: "mystery", Date: ""},
	}

	assert.Equal(t, 1, NewCustomerCount(orders, g, now, cfg))
}
