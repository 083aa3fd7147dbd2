// Package memory provides in-memory implementations of the repository ports.
// They honor the same contracts as the Mongo adapters — soft-delete
// filtering, conditional stock updates, recency ordering — so the
// application services behave identically against either backend.
package memory

import "github.com/Zhima-Mochi/orderdesk/internal/domain/core"

func clonePage[T interface{ Clone() T }](items []T, p core.Pagination) []T {
	start := p.Skip()
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + p.Limit()
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	page := make([]T, 0, end-start)
	for _, it := range items[start:end] {
		page = append(page, it.Clone())
	}
	return page
}
