package shared

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// SortIDs returns the distinct ids in ascending byte order. Ledger operations
// lock rows in this order so concurrent transactions cannot deadlock.
func SortIDs(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return out
}
