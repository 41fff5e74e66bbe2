package sources

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/monitor/internal/adapters/tabular"
	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/internal/domain/dedupe"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/ranking"
	"github.com/okian/monitor/pkg/logger"
	"github.com/okian/monitor/pkg/metrics"
)

// Ranking CSV columns.
const (
	colPlatform    = "平台"
	colRank        = "排名"
	colName        = "游戏名称"
	colCategory    = "游戏类型"
	colSource      = "来源"
	colHeat        = "热度指数"
	colMonitorDate = "监控日期"
	colDeveloper   = "开发公司"
	colChange      = "排名变化"
)

var (
	mechanismCols = []string{"核心玩法_mechanism", "核心玩法_operation", "核心玩法_rules", "核心玩法_features"}
	baselineCols  = []string{"基线_base_genre", "基线_baseline_loop", "基线_micro_innovations"}
	leadingFloat  = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?`)
)

// weeklyTables fixes the table order and titles of the weekly chart CSV.
var weeklyTables = []struct { //nolint:gochecknoglobals // table layout
	typ   model.RankingType
	title string
}{
	{model.RankingWeChat, "微信小游戏周榜"},
	{model.RankingDouyin, "抖音小游戏周榜"},
	{model.RankingAndroid, "安卓游戏排行榜"},
	{model.RankingIOS, "iOS游戏排行榜"},
}

func loadGameRankings(ctx context.Context, env *Env) (Result, error) {
	recs, err := env.fetchRecords(ctx, ResourceGameRankingsCSV)
	if err != nil {
		return Result{}, err
	}
	return Result{Rankings: env.weeklyCharts(ctx, recs)}, nil
}

type bucketed struct {
	typ   model.RankingType
	entry model.RankingEntry
}

// weeklyCharts classifies chart rows by platform code and builds one table
// per known platform.
func (e *Env) weeklyCharts(ctx context.Context, recs []tabular.Record) []model.RankingTable {
	var rows []bucketed
	for i, r := range recs {
		code := r.Get(colPlatform)
		typ, ok := classify.RankingTypeForCode(code)
		if !ok {
			metrics.RecordClassificationDrop("platform")
			continue
		}
		rank, ok := classify.LeadingInt(r.Get(colRank))
		if !ok || rank <= 0 {
			metrics.RecordClassificationDrop("rank")
			continue
		}
		name := r.Get(colName)
		if name == "" {
			metrics.RecordClassificationDrop("name")
			continue
		}
		date := r.Get(colMonitorDate)
		if date == "" || date == model.NoChange {
			date = e.today().Format("2006-01-02")
		}
		entry := model.RankingEntry{
			ID:               fmt.Sprintf("%s-%d-%d", code, i, rank),
			Rank:             rank,
			Name:             name,
			Developer:        or(r.Get(colDeveloper), model.NoChange),
			Category:         or(r.Get(colCategory), model.NoChange),
			Change:           or(r.Get(colChange), model.NoChange),
			UpdateDate:       date,
			Mechanism:        joinCells(r, mechanismCols),
			MicroInnovations: joinCells(r, baselineCols),
			Score:            parseLeadingFloat(r.Get(colHeat)),
		}
		rows = append(rows, bucketed{typ: typ, entry: entry})
	}
	rows, _ = dedupe.Filter(rows, func(b bucketed) string {
		return dedupe.RankingKey(string(b.typ), b.entry.Rank, b.entry.Name)
	})

	byType := make(map[model.RankingType][]model.RankingEntry)
	for _, b := range rows {
		byType[b.typ] = append(byType[b.typ], b.entry)
	}
	var tables []model.RankingTable
	for _, t := range weeklyTables {
		items, ok := byType[t.typ]
		if !ok {
			continue
		}
		ranking.RankOrder(items)
		items = ranking.Limit(items, e.rankingLimit)
		tables = append(tables, model.NewRankingTable(t.typ, t.title, items[0].UpdateDate+" 14:00", "周榜", items))
	}
	e.log.Debug(ctx, "weekly charts built",
		logger.Int("rows", len(recs)), logger.Int("tables", len(tables)))
	return tables
}

func joinCells(r tabular.Record, cols []string) string {
	var parts []string
	for _, c := range cols {
		if v := r.Get(c); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "；")
}

func parseLeadingFloat(s string) *float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}
