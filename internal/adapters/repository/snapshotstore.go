package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/pkg/metrics"
)

// SnapshotStore keeps the latest snapshot behind an atomic pointer. Readers
// never block; Publish swaps the pointer wholesale.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]

	historySize int
	maxLimit    int

	mu      sync.Mutex
	history []RunSummary
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		historySize: 20,
		maxLimit:    1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.Publish.
func (s *SnapshotStore) Publish(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	s.current.Store(snap)

	s.mu.Lock()
	s.history = append([]RunSummary{snap.Summary()}, s.history...)
	if len(s.history) > s.historySize {
		s.history = s.history[:s.historySize]
	}
	s.mu.Unlock()

	build := snap.FinishedAt.Sub(snap.StartedAt)
	metrics.RecordSnapshotPublished(len(snap.Items), len(snap.Rankings), float64(build.Milliseconds()), time.Now().Unix())
	return nil
}

// Current implements Store.Current.
func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Item implements Store.Item.
func (s *SnapshotStore) Item(ctx context.Context, id string) (model.MonitorItem, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return model.MonitorItem{}, err
	}
	it, ok := snap.Item(id)
	if !ok {
		return model.MonitorItem{}, ErrNotFound
	}
	return it, nil
}

// Items implements Store.Items. A zero limit means the store maximum.
func (s *SnapshotStore) Items(ctx context.Context, f Filter) ([]model.MonitorItem, error) {
	if f.Limit < 0 || f.Limit > s.maxLimit {
		return nil, ErrInvalidLimit
	}
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit == 0 {
		limit = s.maxLimit
	}
	out := make([]model.MonitorItem, 0, min(limit, len(snap.Items)))
	for _, it := range snap.Items {
		if len(out) == limit {
			break
		}
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Rankings implements Store.Rankings.
func (s *SnapshotStore) Rankings(ctx context.Context, t model.RankingType) ([]model.RankingTable, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if t == "" {
		return snap.Rankings, nil
	}
	out := make([]model.RankingTable, 0)
	for _, tbl := range snap.Rankings {
		if tbl.Type == t {
			out = append(out, tbl)
		}
	}
	return out, nil
}

// History implements Store.History.
func (s *SnapshotStore) History(_ context.Context) []RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RunSummary, len(s.history))
	copy(out, s.history)
	return out
}
