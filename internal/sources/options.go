package sources

import (
	"time"

	"github.com/okian/monitor/internal/adapters/snapshotdb"
	"github.com/okian/monitor/internal/config"
	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/internal/domain/ranking"
)

// Option configures an Env.
type Option func(*Env)

// WithDatabases shares an existing set of snapshot handles.
func WithDatabases(s *snapshotdb.Set) Option {
	return func(e *Env) {
		if s != nil {
			e.dbs = s
		}
	}
}

// WithClock sets the time source used for "today" defaults.
func WithClock(now func() time.Time) Option {
	return func(e *Env) {
		if now != nil {
			e.now = now
		}
	}
}

// WithClassifier sets the new-entry and surge rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Env) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithPolicy sets the change/delta ordering policy.
func WithPolicy(p *ranking.Policy) Option {
	return func(e *Env) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithRankingLimit caps entries per simple ranking table.
func WithRankingLimit(n int) Option {
	return func(e *Env) {
		if n > 0 {
			e.rankingLimit = n
		}
	}
}

// WithWeeklyBriefLimits sets the surge row count and the new-entry rank cut-off
// of generated weekly briefs.
func WithWeeklyBriefLimits(surgeTop, newEntryTop int) Option {
	return func(e *Env) {
		if surgeTop > 0 {
			e.surgeTop = surgeTop
		}
		if newEntryTop > 0 {
			e.newEntryTop = newEntryTop
		}
	}
}

// WithGameNameAliases maps ranking names to database names.
func WithGameNameAliases(aliases map[string]string) Option {
	return func(e *Env) {
		for k, v := range aliases {
			e.aliases[k] = v
		}
	}
}

// WithDetailLink sets the link appended to generated weekly briefs.
func WithDetailLink(link string) Option {
	return func(e *Env) {
		if link != "" {
			e.detailLink = link
		}
	}
}

// ConfigOptions translates service configuration into Env options.
func ConfigOptions(cfg *config.Config) []Option {
	return []Option{
		WithClassifier(classify.New(classify.WithSurgeThreshold(cfg.SurgeThreshold))),
		WithPolicy(ranking.NewPolicy(cfg.ChangePriority, cfg.SurgeThreshold)),
		WithRankingLimit(cfg.RankingLimit),
		WithWeeklyBriefLimits(cfg.SurgeTop, cfg.NewEntryTop),
		WithGameNameAliases(cfg.GameNameAliases),
		WithDetailLink(cfg.DetailLink),
	}
}
