package analytics

import (
	"sort"
	"time"
)

// ordersByKey groups the order feed by grouping key, preserving per-key
// input order. Records without a usable identity are skipped.
func ordersByKey(orders []RawOrder, g *Grouper) map[string][]RawOrder {
	grouped := make(map[string][]RawOrder)
	for _, o := range orders {
		key := g.Key(o.Address, o.Email)
		if key == "" {
			continue
		}
		grouped[key] = append(grouped[key], o)
	}
	return grouped
}

// ReactivatedCount returns the number of distinct customers that came back
// after a lapse: any consecutive inter-order gap exceeding
// cfg.ReactivationGapDays followed by a later order. Each key is credited at
// most once per pass regardless of how many qualifying gaps it has. Orders
// with unparsable dates are excluded from the timeline but still count
// toward the two-order minimum.
func ReactivatedCount(orders []RawOrder, g *Grouper, cfg Config) int {
	count := 0
	for _, list := range ordersByKey(orders, g) {
		if len(list) < 2 {
			continue
		}
		var dates []time.Time
		for _, o := range list {
			if t, ok := ParseDate(o.Date); ok {
				dates = append(dates, t)
			}
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		for i := 1; i < len(dates); i++ {
			if daysBetween(dates[i-1], dates[i]) > cfg.ReactivationGapDays {
				count++
				break
			}
		}
	}
	return count
}

// NewCustomerCount returns the number of keys whose earliest parseable order
// falls within cfg.NewCustomerDays of "now".
func NewCustomerCount(orders []RawOrder, g *Grouper, now time.Time, cfg Config) int {
	count := 0
	for _, list := range ordersByKey(orders, g) {
		var first *time.Time
		for _, o := range list {
			t, ok := ParseDate(o.Date)
			if !ok {
				continue
			}
			if first == nil || t.Before(*first) {
				tt := t
				first = &tt
			}
		}
		if first == nil {
			continue
		}
		if daysBetween(*first, now) <= cfg.NewCustomerDays {
			count++
		}
	}
	return count
}
