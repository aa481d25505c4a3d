// Package compare implements the diff engines: structural table comparison,
// primary-key data diff, and generic result-set comparison.
//
// All engines are pure functions over already-fetched snapshots. They hold
// no shared state, perform no I/O, and are safe to run concurrently from
// independent UI tabs. Results are never cached; every request recomputes.
package compare

// DiffStatus classifies one compared name or key. Classification is total:
// every name/key in the union of the two sides ends in exactly one status.
type DiffStatus string

const (
	StatusAdded     DiffStatus = "added"
	StatusRemoved   DiffStatus = "removed"
	StatusChanged   DiffStatus = "changed"
	StatusUnchanged DiffStatus = "unchanged"
)

// Summary counts diff entries per status.
type Summary struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

func (s *Summary) count(status DiffStatus) {
	switch status {
	case StatusAdded:
		s.Added++
	case StatusRemoved:
		s.Removed++
	case StatusChanged:
		s.Changed++
	case StatusUnchanged:
		s.Unchanged++
	}
}

// Total returns the number of classified entries.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Changed + s.Unchanged
}
