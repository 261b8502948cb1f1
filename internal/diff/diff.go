// Package diff computes set-like differences between two ordered sequences of
// cart lines under a pluggable equivalence rule. Reconciliation uses it to
// decide which lines a mutation actually added; the optimistic overlay uses it
// to skip optimistic rows that already match a confirmed line.
package diff

// Line is the projection of a cart line used purely for comparison.
type Line struct {
	ID            string
	MerchandiseID string
	Quantity      int
}

// EqualFunc reports whether candidate matches ref. Implementations may be
// directional: ref always comes from the previous sequence, candidate from
// the next one.
type EqualFunc func(ref, candidate Line) bool

// SameLine matches when the candidate refers to the same line and merchandise
// and its quantity did not grow past the reference. A quantity increase or a
// brand-new line therefore registers as a difference. Only meaningful for
// add-lines reconciliation: an add-only mutation cannot decrease a quantity,
// so a decrease reading as "already existing" never happens there.
func SameLine(ref, candidate Line) bool {
	return ref.ID == candidate.ID &&
		ref.MerchandiseID == candidate.MerchandiseID &&
		candidate.Quantity <= ref.Quantity
}

// SameMerchandise matches on merchandise id alone.
func SameMerchandise(ref, candidate Line) bool {
	return ref.MerchandiseID == candidate.MerchandiseID
}

// Added returns the elements of next that a longest-common-subsequence
// alignment of prev and next under eq leaves unmatched, in next's order.
// Removals and moves are not reported. Lines sharing a merchandise id stay
// distinct: matching is per element, never collapsed by key.
func Added(prev, next []Line, eq EqualFunc) []Line {
	if len(next) == 0 {
		return nil
	}
	if len(prev) == 0 {
		out := make([]Line, len(next))
		copy(out, next)
		return out
	}

	// lcs[i][j] is the LCS length of prev[i:] and next[j:]. Cart pages are
	// capped at 100 lines, so the quadratic table stays small.
	lcs := make([][]int, len(prev)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(next)+1)
	}
	for i := len(prev) - 1; i >= 0; i-- {
		for j := len(next) - 1; j >= 0; j-- {
			if eq(prev[i], next[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var added []Line
	i, j := 0, 0
	for i < len(prev) && j < len(next) {
		switch {
		case eq(prev[i], next[j]):
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			added = append(added, next[j])
			j++
		}
	}
	added = append(added, next[j:]...)
	return added
}
