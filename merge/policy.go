package merge

// Policy decides which source wins when two fragments disagree on a field.
// The exact precedence between tools was never nailed down by the tools
// themselves, so it is configuration, not code.
type Policy struct {
	// Order lists source names from most to least authoritative. Sources
	// not listed can only fill fields nothing else reported.
	Order []string

	// CapacityTolerance is the relative disagreement between two capacity
	// values still considered benign. Disagreements are always recorded;
	// the tolerance only classifies the note.
	CapacityTolerance float64
}

// DefaultPolicy ranks dedicated identification tools above the generic
// hardware lister, with the native probe as a fill-only source of last
// resort.
func DefaultPolicy() Policy {
	return Policy{
		Order:             []string{"blkid", "diskutil", "lvm", "smartctl", "lshw", "native"},
		CapacityTolerance: 0.01,
	}
}

// rank returns a comparable authority for a source; higher wins, unlisted
// sources rank lowest.
func (p Policy) rank(source string) int {
	for i, s := range p.Order {
		if s == source {
			return len(p.Order) - i
		}
	}
	return 0
}

// withinTolerance reports whether two capacities disagree by no more than
// the configured relative tolerance.
func (p Policy) withinTolerance(a, b uint64) bool {
	if a == b {
		return true
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	return float64(hi-lo) <= p.CapacityTolerance*float64(hi)
}
