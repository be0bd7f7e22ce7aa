package sheet

// MergeSet holds the merged ranges of one worksheet in insertion order.
type MergeSet struct {
	ranges []MergeRange
}

// TryAddRange appends r unless either of its corners lies inside a range that
// is already in the set. A rejected range leaves the set untouched.
//
// Only the candidate's corners are tested, so an existing range that sits
// strictly inside r is not detected. Documents written with this behavior
// depend on it.
func (m *MergeSet) TryAddRange(r MergeRange) bool {
	for _, existing := range m.ranges {
		if existing.Contains(r.TopLeft) || existing.Contains(r.BottomRight) {
			return false
		}
	}
	m.ranges = append(m.ranges, r)
	return true
}

// ListRanges returns the accepted ranges in insertion order.
func (m *MergeSet) ListRanges() []MergeRange {
	out := make([]MergeRange, len(m.ranges))
	copy(out, m.ranges)
	return out
}

// Len returns the number of accepted ranges.
func (m *MergeSet) Len() int {
	return len(m.ranges)
}
