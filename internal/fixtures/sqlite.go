package fixtures

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // register the sqlite driver
)

// BuildSQLite executes stmts against a fresh database under dir and returns
// the database file bytes.
func BuildSQLite(dir, name string, stmts []string) ([]byte, error) {
	path := filepath.Join(dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reset %s: %w", name, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: exec %.40q: %w", name, s, err)
		}
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

var videosSchema = []string{ //nolint:gochecknoglobals // fixture schema
	`CREATE TABLE games (game_name TEXT PRIMARY KEY, gameplay_analysis TEXT)`,
	`CREATE TABLE weekly_report_simple (week_range TEXT, platform TEXT, game_name TEXT, change_type TEXT, rank TEXT, rank_change TEXT)`,
}

var sensorTowerSchema = []string{ //nolint:gochecknoglobals // fixture schema
	`CREATE TABLE app_metadata (app_id TEXT, os TEXT, name TEXT, publisher_name TEXT, release_date TEXT)`,
	`CREATE TABLE apple_top100 (rank_date TEXT, country TEXT, chart_type TEXT, rank INTEGER, app_id TEXT)`,
	`CREATE TABLE android_top100 (rank_date TEXT, country TEXT, chart_type TEXT, rank INTEGER, app_id TEXT)`,
	`CREATE TABLE rank_changes (rank_date_current TEXT, rank_date_last TEXT, signal TEXT, app_name TEXT, app_id TEXT, country TEXT, platform TEXT, current_rank INTEGER, last_week_rank TEXT, "change" TEXT, change_type TEXT, downloads REAL, revenue REAL, publisher_name TEXT)`,
}

var competitorSchema = []string{ //nolint:gochecknoglobals // fixture schema
	`CREATE TABLE weekly_reports (id INTEGER PRIMARY KEY, company_name TEXT, start_date TEXT, end_date TEXT, report_content TEXT, created_at TEXT)`,
}

// sqlQuote renders s as a SQL string literal.
func sqlQuote(s string) string {
	out := []byte{'\''}
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}
