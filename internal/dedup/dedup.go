// Package dedup collapses record multisets into first-seen-wins sets.
package dedup

// ByIdentity returns items with at most one entry per identity, keeping the
// first-encountered instance of each and preserving encounter order. When
// two sources disagree about the metadata of the same identity, whichever
// was processed first wins; this is a documented policy, not an accident.
func ByIdentity[T any](items []T, identity func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := identity(item)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	return out
}
