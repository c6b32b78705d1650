package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fluvi/retail-monitor/internal/pkg/logger"
)

// rollup accumulates per-key order metrics during a single pass.
type rollup struct {
	total float64
	count int
	units int
	first *time.Time
	last  *time.Time
}

// unitEstimate returns the unit count for one order. An explicit quantity
// code wins when it parses to a positive integer; otherwise the count is
// derived from the amount at the configured unit price, floored, with a
// minimum of one unit for any positive amount.
func unitEstimate(amount float64, code string, unitPrice float64) int {
	if n, err := strconv.Atoi(strings.TrimSpace(code)); err == nil && n > 0 {
		return n
	}
	if amount <= 0 || unitPrice <= 0 {
		return 0
	}
	n := int(math.Floor(amount / unitPrice))
	if n < 1 {
		n = 1
	}
	return n
}

// aggregateOrders rolls the order feed up by grouping key. Records without a
// usable identity are logged and skipped; they must not merge into an
// unrelated key. Returns the rollups plus first-seen key order so downstream
// output is deterministic for a given input ordering.
func aggregateOrders(orders []RawOrder, g *Grouper, cfg Config) (map[string]*rollup, []string) {
	rollups := make(map[string]*rollup)
	var keyOrder []string

	for _, o := range orders {
		key := g.Key(o.Address, o.Email)
		if key == "" {
			logger.Debug("order excluded: no address or email", "order_id", o.ID)
			continue
		}
		r, ok := rollups[key]
		if !ok {
			r = &rollup{}
			rollups[key] = r
			keyOrder = append(keyOrder, key)
		}
		r.total += o.Amount
		r.count++
		r.units += unitEstimate(o.Amount, o.QuantityCode, cfg.UnitPrice)

		t, ok := ParseDate(o.Date)
		if !ok {
			if o.Date != "" {
				logger.Warn("order has unparsable date", "order_id", o.ID, "date", o.Date)
			}
			continue
		}
		// Strictly-later comparisons keep the first-seen date on ties.
		if r.last == nil || t.After(*r.last) {
			tt := t
			r.last = &tt
		}
		if r.first == nil || t.Before(*r.first) {
			tt := t
			r.first = &tt
		}
	}
	return rollups, keyOrder
}

// customerRecord is the customer-feed side of the merge: identity fields from
// the first record seen for a key, plus the legacy running total and
// self-reported last-order date reconciled across duplicate records.
type customerRecord struct {
	name, email, phone, address string
	legacyTotal                 float64
	legacyLast                  *time.Time
}

// groupCustomers collapses the customer feed by grouping key. Duplicate
// records for one key (same buyer, different spellings) sum their legacy
// totals and keep the latest self-reported date.
func groupCustomers(customers []RawCustomer, g *Grouper) (map[string]*customerRecord, []string) {
	grouped := make(map[string]*customerRecord)
	var keyOrder []string

	for _, c := range customers {
		key := g.Key(c.Address, c.Email)
		if key == "" {
			logger.Debug("customer excluded: no address or email", "name", c.Name)
			continue
		}
		rec, ok := grouped[key]
		if !ok {
			rec = &customerRecord{name: c.Name, email: c.Email, phone: c.Phone, address: c.Address}
			grouped[key] = rec
			keyOrder = append(keyOrder, key)
		}
		rec.legacyTotal += c.LegacyTotal
		if t, ok := ParseDate(c.LastOrder); ok {
			if rec.legacyLast == nil || t.After(*rec.legacyLast) {
				tt := t
				rec.legacyLast = &tt
			}
		} else if c.LastOrder != "" {
			logger.Warn("customer has unparsable last-order date", "name", c.Name, "date", c.LastOrder)
		}
	}
	return grouped, keyOrder
}

// buildCustomers produces one EnrichedCustomer per distinct grouping key: the
// union of customer-feed and order-feed keys, customer-feed keys first. The
// two independently-derived rollups are reconciled per key: the later of the
// two last-order dates wins and the totals are summed.
func buildCustomers(customers []RawCustomer, orders []RawOrder, g *Grouper, now time.Time, cfg Config) []EnrichedCustomer {
	rollups, orderKeys := aggregateOrders(orders, g, cfg)
	grouped, customerKeys := groupCustomers(customers, g)

	keys := make([]string, 0, len(grouped)+len(rollups))
	keys = append(keys, customerKeys...)
	for _, k := range orderKeys {
		if _, seen := grouped[k]; !seen {
			keys = append(keys, k)
		}
	}

	enriched := make([]EnrichedCustomer, 0, len(keys))
	for _, key := range keys {
		ec := EnrichedCustomer{Key: key}

		if rec, ok := grouped[key]; ok {
			ec.Name = rec.name
			ec.Email = rec.email
			ec.Phone = rec.phone
			ec.Address = rec.address
			ec.TotalSpent = rec.legacyTotal
			ec.LastOrderDate = rec.legacyLast
		}
		if r, ok := rollups[key]; ok {
			ec.TotalSpent += r.total
			ec.OrderCount = r.count
			ec.EstimatedUnits = r.units
			ec.FirstOrderDate = r.first
			if r.last != nil && (ec.LastOrderDate == nil || r.last.After(*ec.LastOrderDate)) {
				ec.LastOrderDate = r.last
			}
		}

		ec.State, ec.Risk, ec.DaysSinceOrder = Classify(ec.LastOrderDate, now, cfg)
		enriched = append(enriched, ec)
	}
	return enriched
}
