// Package fixtures builds a deterministic sample dataset covering every
// resource the monitor ingests. The seed command writes it to disk and the
// ingestion tests serve it straight from memory.
package fixtures

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/monitor/internal/adapters/fetch"
)

// Dataset maps resource names to their payloads.
type Dataset map[string][]byte

// Build assembles the sample dataset. SQLite snapshots are built in scratch,
// which must be a writable directory.
func Build(scratch string) (Dataset, error) {
	ds := Dataset{
		"周报谷歌表单.csv":                  []byte(GameRankingsCSV),
		"休闲游戏检测/index.json":            []byte(CasualIndex),
		"休闲游戏检测/rankings_2026-01-28.csv": []byte(MiniGameRankingsCSV),
		"休闲游戏检测/2026-01-28.md":          []byte(WeeklyBriefMD),
		"休闲游戏检测/broken.md":              []byte("<!DOCTYPE html><html><body>not found</body></html>"),
		"ai产品/竞品动态报告_AI产品.md":           []byte(AICompetitorMD),
		"ai产品/ai产品竞品下载量和收益.csv":         []byte(AISalesCSV),
		"ai产品/ai_products_report_daily.md": []byte(AIProductUAMD),
		"热点日报.md":                        []byte(HotTrendMD),
		"小红书周报.md":                       []byte(AIDailyMD),
		"ua_report_daily.md":             []byte(UADailyMD),
		"report_documents.json":          []byte(ReportDocumentsJSON),
	}
	for _, db := range []struct {
		name  string
		stmts []string
	}{
		{"videos.db", append(append([]string(nil), videosSchema...), videosRows()...)},
		{"sensortower_top100.db", append(append([]string(nil), sensorTowerSchema...), sensorTowerRows()...)},
		{"competitor_data.db", append(append([]string(nil), competitorSchema...), competitorRows()...)},
	} {
		data, err := BuildSQLite(scratch, db.name, db.stmts)
		if err != nil {
			return nil, err
		}
		ds[db.name] = data
	}
	return ds, nil
}

// Names returns the resource names in lexical order.
func (d Dataset) Names() []string {
	out := make([]string, 0, len(d))
	for name := range d {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Fetch implements fetch.Fetcher. Unknown resources answer 404.
func (d Dataset) Fetch(_ context.Context, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fetch.ErrEmptyName
	}
	data, ok := d[name]
	if !ok {
		return nil, &fetch.StatusError{Resource: name, StatusCode: http.StatusNotFound}
	}
	return data, nil
}

// Without returns a copy of d lacking the named resources.
func (d Dataset) Without(names ...string) Dataset {
	out := make(Dataset, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// With returns a copy of d with name set to data.
func (d Dataset) With(name string, data []byte) Dataset {
	out := d.Without()
	out[name] = data
	return out
}

// WriteTo writes every resource under dir, creating subdirectories.
func (d Dataset) WriteTo(dir string) error {
	for _, name := range d.Names() {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", name, err)
		}
		if err := os.WriteFile(path, d[name], 0o644); err != nil { //nolint:gosec // sample data is world readable
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
