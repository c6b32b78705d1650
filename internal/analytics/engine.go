package analytics

import (
	"time"

	"github.com/fluvi/retail-monitor/internal/pkg/logger"
)

// Compute runs the full analytics pass over two feed snapshots. It is pure:
// inputs are never mutated, no I/O happens, and identical inputs produce
// identical results. Malformed records are logged and skipped; one bad row
// never aborts the pass.
func Compute(customers []RawCustomer, orders []RawOrder, now time.Time, cfg Config) *Result {
	cfg = cfg.withDefaults()
	g := NewGrouper(cfg.BuildingSignatures)

	enriched := buildCustomers(customers, orders, g, now, cfg)

	vip := TopBySpend(enriched, cfg.TopN)
	frequency := TopByFrequency(enriched, cfg.TopN)
	dual := DualRanked(vip, frequency)
	avgTicket := TopByAvgTicket(enriched, cfg.TopN)

	var atRisk []EnrichedCustomer
	active, inactive := 0, 0
	totalRevenue := 0.0
	for _, c := range enriched {
		totalRevenue += c.TotalSpent
		switch c.State {
		case StateActive:
			active++
		default:
			inactive++
		}
		if c.Risk == RiskAtRisk {
			atRisk = append(atRisk, c)
		}
	}

	growth := make(map[int][]GrowthRow, len(cfg.GrowthWindowsMonths))
	for _, months := range cfg.GrowthWindowsMonths {
		growth[months] = TopGrowth(orders, g, months, now, cfg)
	}

	reactivated := ReactivatedCount(orders, g, cfg)
	newCustomers := NewCustomerCount(orders, g, now, cfg)

	churnPct := 0.0
	if len(enriched) > 0 {
		churnPct = float64(inactive) / float64(len(enriched)) * 100
	}

	result := &Result{
		Customers:  enriched,
		VIP:        vip,
		Frequency:  frequency,
		DualRanked: dual,
		AvgTicket:  avgTicket,
		AtRisk:     atRisk,
		Growth:     growth,
		Summary: Summary{
			TotalCustomers:       len(enriched),
			ActiveCustomers:      active,
			InactiveCustomers:    inactive,
			ChurnPercent:         churnPct,
			AtRiskCustomers:      len(atRisk),
			NewCustomers:         newCustomers,
			DualRankedCount:      len(dual),
			ReactivatedCustomers: reactivated,
			TotalRevenue:         totalRevenue,
			GeneratedAt:          now,
		},
		ComputedAt: now,
	}

	logger.Info("analytics pass complete",
		"customers", len(enriched),
		"active", active,
		"inactive", inactive,
		"at_risk", len(atRisk),
		"reactivated", reactivated)

	return result
}
