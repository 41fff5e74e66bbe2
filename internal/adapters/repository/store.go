// Package repository holds the published, read-only ingestion snapshot.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/monitor/internal/domain/model"
)

// SourceStatus reports how one source fared in an ingestion run.
type SourceStatus struct {
	Name       string  `json:"name"`
	OK         bool    `json:"ok"`
	Error      string  `json:"error,omitempty"`
	Items      int     `json:"items"`
	Rankings   int     `json:"rankings"`
	DurationMs float64 `json:"durationMs"`
}

// Snapshot is the immutable result of one ingestion run.
type Snapshot struct {
	RunID      string               `json:"runId"`
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
	Items      []model.MonitorItem  `json:"items"`
	Rankings   []model.RankingTable `json:"rankings"`
	Sources    []SourceStatus       `json:"sources"`

	byID map[string]int
}

// NewSnapshot builds a snapshot with a fresh run ID. Items are indexed by
// ID; the first item wins when IDs collide.
func NewSnapshot(started time.Time, items []model.MonitorItem, rankings []model.RankingTable, sources []SourceStatus) *Snapshot {
	s := &Snapshot{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Items:      items,
		Rankings:   rankings,
		Sources:    sources,
		byID:       make(map[string]int, len(items)),
	}
	if s.Items == nil {
		s.Items = []model.MonitorItem{}
	}
	if s.Rankings == nil {
		s.Rankings = []model.RankingTable{}
	}
	for i, it := range s.Items {
		if _, ok := s.byID[it.ID]; !ok {
			s.byID[it.ID] = i
		}
	}
	return s
}

// Item returns the item with the given ID.
func (s *Snapshot) Item(id string) (model.MonitorItem, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.MonitorItem{}, false
	}
	return s.Items[i], true
}

// Summary condenses a snapshot for run history.
func (s *Snapshot) Summary() RunSummary {
	failed := 0
	for _, st := range s.Sources {
		if !st.OK {
			failed++
		}
	}
	return RunSummary{
		RunID:      s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Items:      len(s.Items),
		Rankings:   len(s.Rankings),
		Failed:     failed,
	}
}

// RunSummary is a condensed record of a past ingestion run.
type RunSummary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Items      int       `json:"items"`
	Rankings   int       `json:"rankings"`
	Failed     int       `json:"failedSources"`
}

// Store publishes and serves ingestion snapshots.
type Store interface {
	// Publish replaces the current snapshot.
	Publish(ctx context.Context, snap *Snapshot) error

	// Current returns the latest snapshot or ErrNoSnapshot.
	Current(ctx context.Context) (*Snapshot, error)

	// Item returns one Monitor Item by ID or ErrNotFound.
	Item(ctx context.Context, id string) (model.MonitorItem, error)

	// Items returns the Monitor Items matching f in snapshot order.
	Items(ctx context.Context, f Filter) ([]model.MonitorItem, error)

	// Rankings returns the ranking tables, optionally of one type.
	Rankings(ctx context.Context, t model.RankingType) ([]model.RankingTable, error)

	// History returns past run summaries, newest first.
	History(ctx context.Context) []RunSummary
}
