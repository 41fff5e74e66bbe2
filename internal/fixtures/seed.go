package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/okian/monitor/pkg/logger"
)

// ErrVerification is returned when a running monitor does not ingest the
// seeded data cleanly.
var ErrVerification = errors.New("seed verification failed")

// SeedConfig holds configuration for a seed run.
type SeedConfig struct {
	OutDir  string        // Directory the dataset is written to
	BaseURL string        // Monitor to refresh and verify; empty skips verification
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every source status
}

// SeedStats summarizes a seed run.
type SeedStats struct {
	Resources int
	Sources   int
	Failed    int
	Items     int
	Duration  time.Duration
}

type sourceStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Items int    `json:"items"`
}

type runSummary struct {
	RunID  string `json:"runId"`
	Items  int    `json:"items"`
	Failed int    `json:"failedSources"`
}

// Seed writes the sample dataset and, when a base URL is configured, asks the
// monitor to refresh and checks that every source ingested it.
func Seed(ctx context.Context, cfg *SeedConfig) (*SeedStats, error) {
	start := time.Now()
	log := logger.Named("seed")
	stats := &SeedStats{}

	scratch, err := os.MkdirTemp("", "monitor-seed-")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	ds, err := Build(scratch)
	if err != nil {
		return nil, err
	}
	if err := ds.WriteTo(cfg.OutDir); err != nil {
		return nil, err
	}
	stats.Resources = len(ds)
	log.Info(ctx, "sample data written", logger.String("dir", cfg.OutDir), logger.Int("resources", stats.Resources))

	if cfg.BaseURL != "" {
		if err := verify(ctx, cfg, stats, log); err != nil {
			return stats, err
		}
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

func verify(ctx context.Context, cfg *SeedConfig, stats *SeedStats, log logger.Logger) error {
	client := &http.Client{Timeout: cfg.Timeout}
	base := strings.TrimRight(cfg.BaseURL, "/")

	var sum runSummary
	if err := call(ctx, client, http.MethodPost, base+"/refresh", &sum); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	stats.Items = sum.Items
	log.Info(ctx, "refresh finished", logger.String("runId", sum.RunID), logger.Int("items", sum.Items))

	var statuses []sourceStatus
	if err := call(ctx, client, http.MethodGet, base+"/sources", &statuses); err != nil {
		return fmt.Errorf("sources: %w", err)
	}
	stats.Sources = len(statuses)
	var failed []string
	for _, st := range statuses {
		if cfg.Verbose {
			log.Info(ctx, "source", logger.String("name", st.Name), logger.Bool("ok", st.OK), logger.Int("items", st.Items))
		}
		if !st.OK {
			failed = append(failed, st.Name+": "+st.Error)
		}
	}
	stats.Failed = len(failed)
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrVerification, strings.Join(failed, "; "))
	}
	if stats.Items == 0 {
		return fmt.Errorf("%w: no items published", ErrVerification)
	}
	return nil
}

func call(ctx context.Context, client *http.Client, method, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

// SeedHelp prints usage for the seed command.
func SeedHelp() {
	fmt.Println(`seed writes the monitor sample dataset and optionally verifies a running monitor.

Usage:
  seed [flags]

Flags:
  -out string       directory to write the dataset to (default "./public")
  -url string       monitor base URL; when set, POST /refresh and check GET /sources
  -timeout duration HTTP request timeout (default 2m)
  -verbose          log every source status
  -help             show this help

Point the monitor at the same directory with MONITOR_DATA_DIR.`)
}
