package analytics

import "time"

// Classify derives the binary lifecycle state and the at-risk flag from a
// customer's last order date. The returned day count is the midnight-to-
// midnight difference; it is meaningful only when last is non-nil.
//
// Rules:
//   - no parseable last order            → inactive
//   - dated beyond the future tolerance  → inactive (data-quality failure)
//   - older than the max data age        → inactive (data-quality failure)
//   - otherwise active iff days since    ≤ InactiveAfterDays
//   - at-risk iff AtRiskAfterDays < days ≤ InactiveAfterDays
//
// At-risk implies active: the flag is a softer warning window, not a third
// state.
func Classify(last *time.Time, now time.Time, cfg Config) (LifecycleState, RiskFlag, int) {
	if last == nil {
		return StateInactive, RiskNone, 0
	}
	days := daysBetween(*last, now)
	if days < -cfg.FutureToleranceDays || days > cfg.MaxDataAgeDays {
		return StateInactive, RiskNone, days
	}
	if days > cfg.InactiveAfterDays {
		return StateInactive, RiskNone, days
	}
	risk := RiskNone
	if days > cfg.AtRiskAfterDays {
		risk = RiskAtRisk
	}
	return StateActive, risk, days
}
