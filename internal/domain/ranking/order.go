package ranking

import (
	"sort"

	"github.com/okian/monitor/internal/domain/model"
)

// RankOrder sorts entries by rank ascending. Equal ranks keep input order.
func RankOrder(entries []model.RankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })
}

// Limit returns at most n entries. Non-positive n keeps everything.
func Limit(entries []model.RankingEntry, n int) []model.RankingEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
