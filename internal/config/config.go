// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file, a .env file and MONITOR_ env vars over New().
// - Errors wrap this package's sentinel errors.
package config

import (
	"time"
)

// DefaultChangePriority orders change-type classes for delta tables, highest first.
// Each class lists its aliases separated by "|".
var DefaultChangePriority = []string{ //nolint:gochecknoglobals // immutable default policy
	"🚀 排名飙升|🆕 新进榜单|飙升|新进榜",
	"📈 排名上升|上升",
	"📉 排名下降|下降",
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is the local root for static resources.
	DataDir string `koanf:"data_dir"`

	// StaticBaseURL serves static resources over HTTP and overrides DataDir.
	StaticBaseURL string `koanf:"static_base_url"`

	// ProxyBaseURL switches fetching to the access-controlled /api/data proxy.
	ProxyBaseURL string `koanf:"proxy_base_url"`

	// ProxyToken is sent as a bearer credential to proxy URLs only.
	ProxyToken string `koanf:"proxy_token"`

	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// RefreshSchedule is a cron spec; empty disables scheduled runs.
	RefreshSchedule string `koanf:"refresh_schedule"`

	// ReloadDatabases drops memoized database snapshots before scheduled runs.
	ReloadDatabases bool `koanf:"reload_databases"`

	// SurgeThreshold is the minimum rank improvement classified as a surge.
	SurgeThreshold int `koanf:"surge_threshold"`

	// RankingLimit caps entries per simple ranking table.
	RankingLimit int `koanf:"ranking_limit"`

	SurgeTop    int `koanf:"surge_top"`
	NewEntryTop int `koanf:"new_entry_top"`

	// ChangePriority lists change-type classes, highest first.
	ChangePriority []string `koanf:"change_priority"`

	// Sources restricts ingestion to the named sources. Empty enables all.
	Sources []string `koanf:"sources"`

	// GameNameAliases maps ranking names to database names.
	GameNameAliases map[string]string `koanf:"game_name_aliases"`

	// DetailLink is appended to generated weekly briefs.
	DetailLink string `koanf:"detail_link"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		DataDir:         "./public",
		FetchTimeout:    15 * time.Second,
		RefreshSchedule: "@every 30m",
		SurgeThreshold:  10,
		RankingLimit:    50,
		SurgeTop:        10,
		NewEntryTop:     50,
		ChangePriority:  append([]string(nil), DefaultChangePriority...),
		GameNameAliases: map[string]string{
			"找茬婆婆": "婆婆来找茬",
		},
		DetailLink: "https://olivr-hzk.github.io/monitor-web/",
	}
}

// SourceEnabled reports whether the named source should run.
func (c *Config) SourceEnabled(name string) bool {
	if len(c.Sources) == 0 {
		return true
	}
	for _, s := range c.Sources {
		if s == name {
			return true
		}
	}
	return false
}
