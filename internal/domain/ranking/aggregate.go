// Package ranking aggregates per-entity metrics and orders ranking entries.
package ranking

import (
	"sort"
	"strings"

	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/pkg/metrics"
)

// Placeholder shown for a missing category or identifier.
const Placeholder = "—"

// MetricRow is one raw row feeding an aggregation.
type MetricRow struct {
	Key      string
	Category string
	AppID    string
	Units    string
	Revenue  string
}

// AggregatedMetric is the running total for one entity. Category and AppID
// come from the entity's first row.
type AggregatedMetric struct {
	Key      string
	Category string
	AppID    string
	Units    int64
	Revenue  int64
}

// ParseVolume reads a volume metric such as "1,234". Malformed values are 0.
func ParseVolume(s string) int64 {
	n, ok := classify.LeadingInt(strings.ReplaceAll(s, ",", ""))
	if !ok {
		return 0
	}
	return int64(n)
}

// Aggregate groups rows by trimmed key and sums their metrics. Rows with an
// empty key are skipped and entities whose totals are all zero are excluded.
// Entities keep the order of their first appearance. The second result is the
// number of excluded entities.
func Aggregate(rows []MetricRow) ([]AggregatedMetric, int) {
	index := make(map[string]int, len(rows))
	all := make([]AggregatedMetric, 0, len(rows))
	for _, r := range rows {
		key := strings.TrimSpace(r.Key)
		if key == "" {
			continue
		}
		units, revenue := ParseVolume(r.Units), ParseVolume(r.Revenue)
		if i, ok := index[key]; ok {
			all[i].Units += units
			all[i].Revenue += revenue
			continue
		}
		index[key] = len(all)
		all = append(all, AggregatedMetric{
			Key:      key,
			Category: orPlaceholder(r.Category),
			AppID:    orPlaceholder(r.AppID),
			Units:    units,
			Revenue:  revenue,
		})
	}
	out := all[:0]
	for _, a := range all {
		if a.Units != 0 || a.Revenue != 0 {
			out = append(out, a)
		}
	}
	excluded := len(all) - len(out)
	metrics.RecordAggregationExcluded(excluded)
	return out, excluded
}

// SortByRevenue orders metrics by revenue, highest first. Ties keep input order.
func SortByRevenue(ms []AggregatedMetric) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Revenue > ms[j].Revenue })
}

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return Placeholder
}
