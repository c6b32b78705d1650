package analytics

import (
	"sort"
	"time"
)

// growthAccum tallies one key's activity across the two comparison windows.
type growthAccum struct {
	currentTotal, previousTotal   float64
	currentOrders, previousOrders int
}

// TopGrowth splits the order history into two adjacent windows ending at
// "now" (current = [now-W, now), previous = [now-2W, now-W)) and ranks
// customers by percentage growth between them. W is windowMonths at a fixed
// 30-day month. Keys with no current-window activity are dropped, not
// zeroed. The result is capped at cfg.TopN rows.
func TopGrowth(orders []RawOrder, g *Grouper, windowMonths int, now time.Time, cfg Config) []GrowthRow {
	window := time.Duration(windowMonths) * 30 * 24 * time.Hour
	currentStart := now.Add(-window)
	previousStart := now.Add(-2 * window)

	accums := make(map[string]*growthAccum)
	var keyOrder []string

	for _, o := range orders {
		key := g.Key(o.Address, o.Email)
		if key == "" {
			continue
		}
		t, ok := ParseDate(o.Date)
		if !ok {
			continue
		}
		var inCurrent, inPrevious bool
		switch {
		case !t.Before(currentStart) && t.Before(now):
			inCurrent = true
		case !t.Before(previousStart) && t.Before(currentStart):
			inPrevious = true
		default:
			continue
		}
		a, seen := accums[key]
		if !seen {
			a = &growthAccum{}
			accums[key] = a
			keyOrder = append(keyOrder, key)
		}
		if inCurrent {
			a.currentTotal += o.Amount
			a.currentOrders++
		} else if inPrevious {
			a.previousTotal += o.Amount
			a.previousOrders++
		}
	}

	var rows []GrowthRow
	for _, key := range keyOrder {
		a := accums[key]
		if a.currentTotal <= 0 {
			continue
		}
		rows = append(rows, GrowthRow{
			Key:              key,
			CurrentTotal:     a.currentTotal,
			PreviousTotal:    a.previousTotal,
			CurrentOrders:    a.currentOrders,
			PreviousOrders:   a.previousOrders,
			AbsoluteGrowth:   a.currentTotal - a.previousTotal,
			PercentGrowth:    percentGrowth(a.currentTotal, a.previousTotal),
			CurrentAvgOrder:  avgOrder(a.currentTotal, a.currentOrders),
			PreviousAvgOrder: avgOrder(a.previousTotal, a.previousOrders),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PercentGrowth > rows[j].PercentGrowth
	})
	return truncate(rows, cfg.TopN)
}

// percentGrowth guards the zero-baseline cases explicitly so the result is
// never NaN or Inf: an empty previous window reads as 100% growth when there
// is current activity and 0% otherwise.
func percentGrowth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func avgOrder(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
