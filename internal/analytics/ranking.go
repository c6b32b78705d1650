package analytics

import "sort"

// Rankings use sort.SliceStable throughout: equal sort keys keep their input
// order, so results are deterministic for a given snapshot ordering. No
// secondary tiebreak is applied on purpose.

// TopBySpend returns the n highest-value customers, descending by total spent.
func TopBySpend(customers []EnrichedCustomer, n int) []EnrichedCustomer {
	ranked := append([]EnrichedCustomer(nil), customers...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSpent > ranked[j].TotalSpent
	})
	return truncate(ranked, n)
}

// TopByFrequency returns the n most frequent buyers, descending by order count.
func TopByFrequency(customers []EnrichedCustomer, n int) []EnrichedCustomer {
	ranked := append([]EnrichedCustomer(nil), customers...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OrderCount > ranked[j].OrderCount
	})
	return truncate(ranked, n)
}

// DualRanked returns the members of the spend ranking that also appear in the
// frequency ranking, preserving spend-ranking order. Its size is the headline
// "VIP" count.
func DualRanked(bySpend, byFrequency []EnrichedCustomer) []EnrichedCustomer {
	inFreq := make(map[string]struct{}, len(byFrequency))
	for _, c := range byFrequency {
		inFreq[c.Key] = struct{}{}
	}
	var dual []EnrichedCustomer
	for _, c := range bySpend {
		if _, ok := inFreq[c.Key]; ok {
			dual = append(dual, c)
		}
	}
	return dual
}

// TopByAvgTicket ranks customers with at least one order by average order
// value, descending, capped at n.
func TopByAvgTicket(customers []EnrichedCustomer, n int) []AvgTicketRow {
	var rows []AvgTicketRow
	for _, c := range customers {
		if c.OrderCount == 0 {
			continue
		}
		rows = append(rows, AvgTicketRow{
			EnrichedCustomer: c,
			AvgTicket:        c.TotalSpent / float64(c.OrderCount),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AvgTicket > rows[j].AvgTicket
	})
	return truncate(rows, n)
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
