// Package analytics implements the customer lifecycle and segmentation
// engine: identity normalization, per-customer order rollups, lifecycle
// classification, value/frequency rankings, period-over-period growth and
// reactivation detection.
//
// The whole engine is a pure function over two feed snapshots:
//
//	result := analytics.Compute(customers, orders, time.Now(), analytics.DefaultConfig())
//
// Compute never mutates its inputs and produces identical results for
// identical inputs. Fetching snapshots, caching results and deciding when to
// recompute are the caller's problem (see internal/collector).
package analytics
