// Package dedupe implements first-seen-wins deduplication over composite keys.
package dedupe

import (
	"strconv"
	"strings"
	"sync"

	"github.com/okian/monitor/pkg/metrics"
)

// Deduper records seen keys so later duplicates can be discarded.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(key string) bool
}

type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
}

// NewInMemoryDeduper creates an unbounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// RankingKey identifies a ranking row within one bucket.
func RankingKey(bucket string, rank int, name string) string {
	return bucket + "-" + strconv.Itoa(rank) + "-" + strings.TrimSpace(name)
}

// ReportKey identifies a report record.
func ReportKey(category, date, entity string) string {
	return category + "|" + date + "|" + strings.TrimSpace(entity)
}

// Filter keeps the first item under each key, preserving input order.
// Items with an empty key are kept. It returns the kept items and the
// number of discarded duplicates.
func Filter[T any](items []T, key func(T) string) ([]T, int) {
	d := NewInMemoryDeduper(WithCapacity(len(items)))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if k != "" && d.SeenAndRecord(k) {
			continue
		}
		out = append(out, it)
	}
	dropped := len(items) - len(out)
	metrics.RecordDuplicatesDiscarded(dropped)
	return out, dropped
}
