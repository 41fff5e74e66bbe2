// Package service orchestrates ingestion: it fans out every enabled source,
// merges whatever settled into one snapshot and publishes it for the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/okian/monitor/internal/adapters/fetch"
	"github.com/okian/monitor/internal/adapters/repository"
	"github.com/okian/monitor/internal/config"
	"github.com/okian/monitor/internal/domain/dedupe"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/normalize"
	"github.com/okian/monitor/internal/sources"
	"github.com/okian/monitor/pkg/logger"
	"github.com/okian/monitor/pkg/metrics"
)

// Service implements the API dependencies for the monitor.
type Service struct {
	mu sync.RWMutex

	// Core components
	cfg     *config.Config
	fetcher fetch.Fetcher
	env     *sources.Env
	store   *repository.SnapshotStore
	sources []sources.Source

	envOpts  []sources.Option
	schedule string
	reload   bool

	flight singleflight.Group

	// State
	started bool
	cron    *cron.Cron
	cancel  context.CancelFunc
	bg      sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the service configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithFetcher replaces the fetcher built from the configuration.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithSources replaces the registered sources.
func WithSources(list ...sources.Source) Option {
	return func(s *Service) {
		s.sources = list
	}
}

// WithSourceOptions adds options applied after the configuration-derived ones.
func WithSourceOptions(opts ...sources.Option) Option {
	return func(s *Service) {
		s.envOpts = append(s.envOpts, opts...)
	}
}

// WithStore sets the snapshot store.
func WithStore(store *repository.SnapshotStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Configuration defaults apply when WithConfig is
// not given.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.New()
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.fetcher == nil {
		s.fetcher = fetch.New(
			fetch.WithDir(s.cfg.DataDir),
			fetch.WithStaticBaseURL(s.cfg.StaticBaseURL),
			fetch.WithProxy(s.cfg.ProxyBaseURL, s.cfg.ProxyToken),
			fetch.WithTimeout(s.cfg.FetchTimeout),
		)
	}
	if s.store == nil {
		s.store = repository.NewSnapshotStore()
	}
	if s.sources == nil {
		for _, src := range sources.Registry() {
			if s.cfg.SourceEnabled(src.Name) {
				s.sources = append(s.sources, src)
			}
		}
	}
	s.schedule = s.cfg.RefreshSchedule
	s.reload = s.cfg.ReloadDatabases
	s.env = sources.NewEnv(s.fetcher, append(sources.ConfigOptions(s.cfg), s.envOpts...)...)
	return s
}

// Start publishes a first snapshot in the background and registers the
// refresh schedule.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if s.schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.schedule, func() { s.scheduled(runCtx) }); err != nil {
			cancel()
			return fmt.Errorf("schedule %q: %w", s.schedule, err)
		}
		c.Start()
		s.cron = c
	}
	s.cancel = cancel
	s.started = true

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if _, err := s.Run(runCtx); err != nil {
			s.logger.Warn(runCtx, "initial ingestion failed", logger.Error(err))
		}
	}()

	s.logger.Info(ctx, "monitor service started",
		logger.Int("sources", len(s.sources)),
		logger.String("schedule", s.schedule),
	)
	return nil
}

func (s *Service) scheduled(ctx context.Context) {
	if _, err := s.shared(ctx, s.reload); err != nil {
		s.logger.Warn(ctx, "scheduled ingestion failed", logger.Error(err))
	}
}

// Stop halts the schedule, waits for background runs and releases the
// database snapshots.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping monitor service...")
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
	}
	s.cancel()
	s.bg.Wait()
	if err := s.env.Databases().Close(); err != nil {
		s.logger.Warn(context.Background(), "closing databases", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "monitor service stopped")
}

// Run performs one ingestion and publishes its snapshot. Concurrent calls
// share a single run.
func (s *Service) Run(ctx context.Context) (*repository.Snapshot, error) {
	return s.shared(ctx, false)
}

// shared runs inside the single flight. With reload the database snapshots
// are dropped first, so no run in progress can lose its handles; callers
// that join an existing flight reuse its result without a reset.
func (s *Service) shared(ctx context.Context, reload bool) (*repository.Snapshot, error) {
	v, err, _ := s.flight.Do("run", func() (any, error) {
		if reload {
			if err := s.env.Databases().Reset(); err != nil {
				s.logger.Warn(ctx, "database reset failed", logger.Error(err))
			}
		}
		return s.run(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.Snapshot), nil
}

func (s *Service) run(ctx context.Context) (*repository.Snapshot, error) {
	started := time.Now()
	tasks := make([]Task[sources.Result], len(s.sources))
	for i, src := range s.sources {
		tasks[i] = Task[sources.Result]{
			Name: src.Name,
			Run: func(ctx context.Context) (sources.Result, error) {
				return src.Load(ctx, s.env)
			},
		}
	}
	outcomes := SettleAll(ctx, tasks)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingestion abandoned: %w", err)
	}

	var items []model.MonitorItem
	var rankings []model.RankingTable
	statuses := make([]repository.SourceStatus, len(outcomes))
	for i, o := range outcomes {
		ms := float64(o.Duration.Microseconds()) / 1000
		metrics.RecordSourceDuration(o.Name, ms)
		metrics.RecordSourceFetch(o.Name, o.Err == nil)
		st := repository.SourceStatus{Name: o.Name, OK: o.Err == nil, DurationMs: ms}
		if o.Err != nil {
			st.Error = o.Err.Error()
			s.logger.Warn(ctx, "source failed, using empty result",
				logger.String("source", o.Name), logger.Error(o.Err))
		} else {
			st.Items, st.Rankings = len(o.Value.Items), len(o.Value.Rankings)
			items = append(items, o.Value.Items...)
			rankings = append(rankings, o.Value.Rankings...)
		}
		metrics.UpdateSourceItems(o.Name, st.Items)
		statuses[i] = st
	}
	items, dups := dedupe.Filter(items, func(it model.MonitorItem) string { return it.ID })

	snap := repository.NewSnapshot(started, items, rankings, statuses)
	if err := s.store.Publish(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "snapshot published",
		logger.String("runId", snap.RunID),
		logger.Int("items", len(snap.Items)),
		logger.Int("rankings", len(snap.Rankings)),
		logger.Int("duplicates", dups),
		logger.Int("failedSources", snap.Summary().Failed),
		logger.Duration("took", snap.FinishedAt.Sub(started)),
	)
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	return s.store.Current(ctx)
}

// Items returns the Monitor Items matching f.
func (s *Service) Items(ctx context.Context, f repository.Filter) ([]model.MonitorItem, error) {
	return s.store.Items(ctx, f)
}

// Item returns one Monitor Item.
func (s *Service) Item(ctx context.Context, id string) (model.MonitorItem, error) {
	return s.store.Item(ctx, id)
}

// Document returns the normalized Report Document of an item.
func (s *Service) Document(ctx context.Context, id string) (model.ReportDocument, error) {
	it, err := s.store.Item(ctx, id)
	if err != nil {
		return model.ReportDocument{}, err
	}
	return normalize.Item(it), nil
}

// Rankings returns the ranking tables, optionally of one type.
func (s *Service) Rankings(ctx context.Context, t model.RankingType) ([]model.RankingTable, error) {
	return s.store.Rankings(ctx, t)
}

// Sources returns the per-source status of the current snapshot.
func (s *Service) Sources(ctx context.Context) ([]repository.SourceStatus, error) {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sources, nil
}

// Refresh runs an ingestion on demand and returns its summary.
func (s *Service) Refresh(ctx context.Context) (repository.RunSummary, error) {
	snap, err := s.Run(ctx)
	if err != nil {
		return repository.RunSummary{}, err
	}
	return snap.Summary(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name
	}
	stats := map[string]any{
		"started":  s.started,
		"sources":  names,
		"schedule": s.schedule,
	}
	ctx := context.Background()
	if snap, err := s.store.Current(ctx); err == nil {
		stats["lastRun"] = snap.Summary()
	}
	stats["history"] = s.store.History(ctx)
	return stats
}
