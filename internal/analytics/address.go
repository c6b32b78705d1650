package analytics

import (
	"regexp"
	"strings"
)

// NormalizeAddress canonicalizes free-text for grouping: trimmed, lowercased,
// internal whitespace collapsed to single spaces. Total and idempotent; empty
// or absent input yields "".
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// buildingSig is a precompiled multi-unit building signature. Several dozen
// apartments share one street address, so the unit number has to become part
// of the grouping key or the whole building collapses into one customer.
type buildingSig struct {
	base string
	unit *regexp.Regexp
}

// Grouper derives grouping keys from raw identity fields. Build one per
// Compute pass from Config.BuildingSignatures.
type Grouper struct {
	sigs []buildingSig
}

// NewGrouper precompiles the unit-number patterns for the given building
// signatures. Signatures are normalized the same way addresses are.
func NewGrouper(signatures []string) *Grouper {
	g := &Grouper{}
	for _, raw := range signatures {
		base := NormalizeAddress(raw)
		if base == "" {
			continue
		}
		g.sigs = append(g.sigs, buildingSig{
			base: base,
			unit: regexp.MustCompile(regexp.QuoteMeta(base) + `.*?(\d{3})`),
		})
	}
	return g
}

// Key returns the grouping key for a record: the normalized address, falling
// back to the normalized email when the address is empty. Returns "" when
// neither field is usable; callers exclude such records from aggregation.
func (g *Grouper) Key(address, email string) string {
	if norm := g.addressKey(address); norm != "" {
		return norm
	}
	return NormalizeAddress(email)
}

func (g *Grouper) addressKey(address string) string {
	norm := NormalizeAddress(address)
	if norm == "" {
		return ""
	}
	for _, sig := range g.sigs {
		if !strings.Contains(norm, sig.base) {
			continue
		}
		if m := sig.unit.FindStringSubmatch(norm); m != nil {
			return sig.base + " depto " + m[1]
		}
		return sig.base
	}
	return norm
}
