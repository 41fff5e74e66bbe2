// Package sources turns upstream resources into canonical monitor items and
// ranking tables. Each Source reads one resource family through the shared
// Env and either returns its records or an error; isolating failures across
// sources is the orchestrator's job.
package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/monitor/internal/adapters/fetch"
	"github.com/okian/monitor/internal/adapters/jsondoc"
	"github.com/okian/monitor/internal/adapters/markdown"
	"github.com/okian/monitor/internal/adapters/snapshotdb"
	"github.com/okian/monitor/internal/adapters/tabular"
	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/ranking"
	"github.com/okian/monitor/pkg/logger"
)

// Source names, in registration order.
const (
	GameRankings         = "game_rankings"
	WeChatDouyinRankings = "wechat_douyin_rankings"
	NewGames             = "new_games"
	WeeklyBriefDB        = "weekly_brief_db"
	WeeklyBriefFiles     = "weekly_brief_files"
	SensorTowerTop       = "sensortower_top"
	SensorTowerMovers    = "sensortower_movers"
	AICompetitorReport   = "ai_competitor_report"
	AISalesRanking       = "ai_sales_ranking"
	AIProductUADaily     = "ai_product_ua_daily"
	HotTrend             = "hot_trend"
	AIDaily              = "ai_daily"
	UADaily              = "ua_daily"
	CompetitorWeekly     = "competitor_weekly"
	ReportDocuments      = "report_documents"
)

// Resource names relative to the data root.
const (
	ResourceGameRankingsCSV = "周报谷歌表单.csv"
	ResourceCasualDir       = "休闲游戏检测"
	ResourceCasualIndex     = ResourceCasualDir + "/index.json"
	ResourceVideosDB        = "videos.db"
	ResourceSensorTowerDB   = "sensortower_top100.db"
	ResourceCompetitorDB    = "competitor_data.db"
	ResourceAICompetitorMD  = "ai产品/竞品动态报告_AI产品.md"
	ResourceAISalesCSV      = "ai产品/ai产品竞品下载量和收益.csv"
	ResourceAIProductUAMD   = "ai产品/ai_products_report_daily.md"
	ResourceHotTrendMD      = "热点日报.md"
	ResourceAIDailyMD       = "小红书周报.md"
	ResourceUADailyMD       = "ua_report_daily.md"
	ResourceReportDocuments = "report_documents.json"
)

// ErrMalformed reports a resource whose structure cannot be interpreted.
var ErrMalformed = errors.New("malformed resource")

// Result is what one source contributes to an ingestion run.
type Result struct {
	Items    []model.MonitorItem
	Rankings []model.RankingTable
}

// Len returns the number of records in r.
func (r Result) Len() int { return len(r.Items) + len(r.Rankings) }

// Source loads one resource family.
type Source struct {
	Name string
	Load func(ctx context.Context, env *Env) (Result, error)
}

// Registry returns every source in registration order.
func Registry() []Source {
	return []Source{
		{Name: GameRankings, Load: loadGameRankings},
		{Name: WeChatDouyinRankings, Load: loadWeChatDouyinRankings},
		{Name: NewGames, Load: loadNewGames},
		{Name: WeeklyBriefDB, Load: loadWeeklyBriefDB},
		{Name: WeeklyBriefFiles, Load: loadWeeklyBriefFiles},
		{Name: SensorTowerTop, Load: loadSensorTowerTop},
		{Name: SensorTowerMovers, Load: loadSensorTowerMovers},
		{Name: AICompetitorReport, Load: loadAICompetitorReport},
		{Name: AISalesRanking, Load: loadAISalesRanking},
		{Name: AIProductUADaily, Load: loadAIProductUADaily},
		{Name: HotTrend, Load: loadHotTrend},
		{Name: AIDaily, Load: loadAIDaily},
		{Name: UADaily, Load: loadUADaily},
		{Name: CompetitorWeekly, Load: loadCompetitorWeekly},
		{Name: ReportDocuments, Load: loadReportDocuments},
	}
}

// Names lists the registered source names.
func Names() []string {
	reg := Registry()
	out := make([]string, len(reg))
	for i, s := range reg {
		out[i] = s.Name
	}
	return out
}

// Env carries the collaborators and policy shared by all sources.
type Env struct {
	fetcher    fetch.Fetcher
	dbs        *snapshotdb.Set
	classifier *classify.Classifier
	policy     *ranking.Policy
	now        func() time.Time
	log        logger.Logger

	rankingLimit int
	surgeTop     int
	newEntryTop  int
	aliases      map[string]string
	detailLink   string
}

// NewEnv builds an Env over fetcher. Without WithDatabases, database
// snapshots are loaded through the same fetcher.
func NewEnv(fetcher fetch.Fetcher, opts ...Option) *Env {
	e := &Env{
		fetcher:      fetcher,
		classifier:   classify.New(),
		policy:       ranking.DefaultPolicy(),
		now:          time.Now,
		rankingLimit: 50,
		surgeTop:     10,
		newEntryTop:  50,
		aliases:      map[string]string{},
		detailLink:   "https://olivr-hzk.github.io/monitor-web/",
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dbs == nil {
		e.dbs = snapshotdb.NewSet(FetchLoader(fetcher))
	}
	e.log = logger.Named("sources")
	return e
}

// FetchLoader adapts a fetcher into snapshot loaders keyed by resource name.
func FetchLoader(f fetch.Fetcher) func(resource string) snapshotdb.Loader {
	return func(resource string) snapshotdb.Loader {
		return func(ctx context.Context) ([]byte, error) {
			return f.Fetch(ctx, resource)
		}
	}
}

// Databases returns the snapshot handles used by the sources.
func (e *Env) Databases() *snapshotdb.Set { return e.dbs }

func (e *Env) today() time.Time { return e.now() }

func (e *Env) fetchText(ctx context.Context, name string) (string, error) {
	data, err := e.fetcher.Fetch(ctx, name)
	if err != nil {
		return "", err
	}
	return markdown.Parse(name, data)
}

func (e *Env) fetchRecords(ctx context.Context, name string) ([]tabular.Record, error) {
	data, err := e.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	recs, err := tabular.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return recs, nil
}

func (e *Env) query(ctx context.Context, db, sql string, args ...any) ([]snapshotdb.Row, error) {
	return e.dbs.Handle(db).Query(ctx, sql, args...)
}

// casualIndex lists the ranking CSVs and report markdown files under the
// casual game directory.
type casualIndex struct {
	Rankings []string `json:"rankings"`
	Reports  []string `json:"reports"`
}

func (e *Env) loadIndex(ctx context.Context) (casualIndex, error) {
	data, err := e.fetcher.Fetch(ctx, ResourceCasualIndex)
	if err != nil {
		return casualIndex{}, err
	}
	raw, err := jsondoc.DecodeStrict[map[string]any](data)
	if err != nil {
		return casualIndex{}, fmt.Errorf("%s: %w: %w", ResourceCasualIndex, ErrMalformed, err)
	}
	list, ok := raw["rankings"].([]any)
	if !ok {
		return casualIndex{}, fmt.Errorf("%s: %w: rankings is not a list", ResourceCasualIndex, ErrMalformed)
	}
	idx := casualIndex{Rankings: stringsOf(list)}
	if reports, ok := raw["reports"].([]any); ok {
		idx.Reports = stringsOf(reports)
	}
	return idx, nil
}

func stringsOf(vals []any) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func casualPath(name string) string { return ResourceCasualDir + "/" + name }

// itemID keeps an item ID addressable as a single /items/{id} path segment.
func itemID(id string) string { return strings.ReplaceAll(id, "/", "_") }

func trimExt(name, ext string) string {
	if len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}

func or(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
