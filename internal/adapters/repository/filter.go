package repository

import (
	"strings"

	"github.com/okian/monitor/internal/domain/model"
)

// Filter selects Monitor Items. Empty fields match everything.
type Filter struct {
	Type     model.MonitorType
	Category model.CasualCategory
	Source   model.CasualSource
	// Sub matches either the competitor or the AI product sub-category.
	Sub      string
	Company  string
	Platform string
	// Query is a case-insensitive substring of title, description or tags.
	Query    string
	Limit    int
}

// Match reports whether it passes the filter.
func (f Filter) Match(it model.MonitorItem) bool {
	if f.Type != "" && it.Type != f.Type {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Source != "" && it.CasualSource != f.Source {
		return false
	}
	if f.Sub != "" && string(it.CompetitorSub) != f.Sub && string(it.AIProductSub) != f.Sub {
		return false
	}
	if f.Company != "" && it.CompanyName != f.Company {
		return false
	}
	if f.Platform != "" && it.Platform != f.Platform {
		return false
	}
	if f.Query != "" && !matchesQuery(it, strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func matchesQuery(it model.MonitorItem, q string) bool {
	if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(strings.ToLower(it.Description), q) {
		return true
	}
	for _, t := range it.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
