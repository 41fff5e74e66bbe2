package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/monitor/internal/adapters/markdown"
	"github.com/okian/monitor/internal/adapters/tabular"
	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/internal/domain/dedupe"
	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/ranking"
	"github.com/okian/monitor/pkg/logger"
	"github.com/okian/monitor/pkg/metrics"
)

const (
	defaultCasualSource = "引力引擎"
	weeklyBriefQuery    = `SELECT week_range, platform, game_name, change_type, rank, rank_change
FROM weekly_report_simple
WHERE platform IN ('wx','dy')
ORDER BY week_range DESC, platform, change_type, CAST(rank AS INTEGER)`
)

var weeklyBriefTags = []string{"周报简要", "休闲游戏", "微信小游戏", "抖音小游戏"} //nolint:gochecknoglobals // fixed tag set

// rankingCSV is one ranking export listed in the casual game index.
type rankingCSV struct {
	name    string
	id      string
	records []tabular.Record
}

// rankingCSVs fetches every ranking export in the index. Exports that cannot
// be fetched or parsed are skipped.
func (e *Env) rankingCSVs(ctx context.Context, idx casualIndex) []rankingCSV {
	out := make([]rankingCSV, 0, len(idx.Rankings))
	for _, name := range idx.Rankings {
		recs, err := e.fetchRecords(ctx, casualPath(name))
		if err != nil {
			e.log.Warn(ctx, "ranking export skipped", logger.String("file", name), logger.Error(err))
			continue
		}
		out = append(out, rankingCSV{name: name, id: trimExt(name, ".csv"), records: recs})
	}
	return out
}

func loadWeChatDouyinRankings(ctx context.Context, env *Env) (Result, error) {
	idx, err := env.loadIndex(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Rankings: miniGameTables(env.rankingCSVs(ctx, idx))}, nil
}

// miniGameTables merges the WeChat and Douyin rows of every export into one
// table per platform.
func miniGameTables(csvs []rankingCSV) []model.RankingTable {
	var wechat, douyin []model.RankingEntry
	latest := ""
	for _, csv := range csvs {
		for _, r := range csv.records {
			label := r.Get(colPlatform)
			typ, ok := classify.RankingTypeForLabel(label)
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
			if date != "" {
				latest = date
			}
			entry := model.RankingEntry{
				Rank:          rank,
				Name:          name,
				Change:        or(r.Get(colChange), model.NoChange),
				UpdateDate:    or(date, model.NoChange),
				Developer:     r.Get(colDeveloper),
				Category:      r.Get(colCategory),
				PlatformLabel: label,
			}
			if typ == model.RankingWeChat {
				entry.ID = fmt.Sprintf("wx-%d-%d-%s", len(wechat), rank, name)
				wechat = append(wechat, entry)
			} else {
				entry.ID = fmt.Sprintf("dy-%d-%d-%s", len(douyin), rank, name)
				douyin = append(douyin, entry)
			}
		}
	}

	updateTime := ""
	if latest != "" {
		updateTime = latest + " 12:00"
	}
	var tables []model.RankingTable
	for _, t := range []struct {
		typ   model.RankingType
		title string
		items []model.RankingEntry
	}{
		{model.RankingWeChat, "微信小游戏榜单", wechat},
		{model.RankingDouyin, "抖音小游戏榜单", douyin},
	} {
		items, _ := dedupe.Filter(t.items, func(e model.RankingEntry) string {
			return dedupe.RankingKey(string(t.typ), e.Rank, e.Name)
		})
		if len(items) == 0 {
			continue
		}
		ranking.RankOrder(items)
		tables = append(tables, model.NewRankingTable(t.typ, t.title, updateTime, "周榜", items))
	}
	return tables
}

func loadNewGames(ctx context.Context, env *Env) (Result, error) {
	idx, err := env.loadIndex(ctx)
	if err != nil {
		return Result{}, err
	}
	csvs := env.rankingCSVs(ctx, idx)
	lookup := &gameplayLookup{env: env}
	var items []model.MonitorItem
	for _, category := range []model.CasualCategory{model.CasualNewGame, model.CasualNewGameplay} {
		for _, csv := range csvs {
			items = append(items, env.gameItems(ctx, lookup, csv, category)...)
		}
	}
	items, _ = dedupe.Filter(items, func(it model.MonitorItem) string {
		return dedupe.ReportKey(string(it.Category), it.Date, it.Title)
	})
	return Result{Items: items}, nil
}

// gameItems builds one item per row of csv whose change falls in category,
// attaching the game's gameplay write-up when one is stored.
func (e *Env) gameItems(ctx context.Context, lookup *gameplayLookup, csv rankingCSV, category model.CasualCategory) []model.MonitorItem {
	var items []model.MonitorItem
	for i, r := range csv.records {
		if !e.classifier.InCategory(r.Get(colChange), category) {
			continue
		}
		name := r.Get(colName)
		if name == "" {
			metrics.RecordClassificationDrop("name")
			continue
		}
		platform := r.Get(colPlatform)
		monitorDate := r.Get(colMonitorDate)
		source := or(r.Get(colSource), defaultCasualSource)

		body, ok := lookup.content(ctx, name)
		summary := name + " - " + platform
		if ok {
			summary = extract.GameplaySummary(body)
		} else {
			body = "# " + name + "\n\n（暂无玩法说明）"
		}
		doc := model.ReportDocument{
			Title:   name,
			Tags:    []string{platform, string(category), "玩法"},
			Date:    monitorDate,
			Source:  source,
			Summary: summary,
			Content: body,
		}
		it := model.ItemFromDocument(itemID(fmt.Sprintf("reports-%s-%s-%d-%s", category, csv.id, i, name)), model.MonitorCasualGame, doc)
		it.Category = category
		it.CasualSource = model.SourceWeChatDouyin
		if key, ok := classify.PlatformKeyForLabel(platform); ok {
			it.Platform = key
		} else {
			it.Platform = platform
		}
		it.Date = extract.ShortDate(monitorDate)
		it.Time = "12:00"
		it.Sentiment = ""
		items = append(items, it)
	}
	return items
}

type briefRow struct {
	week, platform, game, changeType, rankChange string
}

func loadWeeklyBriefDB(ctx context.Context, env *Env) (Result, error) {
	rows, err := env.query(ctx, ResourceVideosDB, weeklyBriefQuery)
	if err != nil {
		return Result{}, err
	}
	var weeks []string
	byWeek := make(map[string][]briefRow)
	for _, r := range rows {
		br := briefRow{
			week:       r.String("week_range"),
			platform:   r.String("platform"),
			game:       r.String("game_name"),
			changeType: r.String("change_type"),
			rankChange: r.String("rank_change"),
		}
		if br.week == "" {
			continue
		}
		if _, ok := byWeek[br.week]; !ok {
			weeks = append(weeks, br.week)
		}
		byWeek[br.week] = append(byWeek[br.week], br)
	}

	items := make([]model.MonitorItem, 0, len(weeks))
	for _, week := range weeks {
		items = append(items, env.weeklyBrief(week, byWeek[week]))
	}
	return Result{Items: items}, nil
}

func (e *Env) weeklyBrief(week string, rows []briefRow) model.MonitorItem {
	var newIn, surge []briefRow
	for _, r := range rows {
		switch r.changeType {
		case classify.NewEntryMarker:
			newIn = append(newIn, r)
		case "飙升":
			surge = append(surge, r)
		}
	}
	lines := []string{"**监控时间**：" + week, ""}
	if len(newIn) > 0 {
		lines = append(lines, "## 本周新进榜", "")
		for _, r := range newIn {
			lines = append(lines, fmt.Sprintf("- **%s**（%s）", r.game, classify.WeeklyBriefPlatformLabel(r.platform)))
		}
		lines = append(lines, "")
	}
	if len(surge) > 0 {
		lines = append(lines, "## 本周排名飙升", "")
		for _, r := range surge {
			lines = append(lines, fmt.Sprintf("- **%s**（%s，排名变化 %s）", r.game, classify.WeeklyBriefPlatformLabel(r.platform), r.rankChange))
		}
		lines = append(lines, "")
	}
	if len(newIn) == 0 && len(surge) == 0 {
		lines = append(lines, "该周暂无新进榜或排名飙升记录。", "")
	}
	lines = append(lines, "---", "", fmt.Sprintf("详细玩法请登录 [监测汇总平台](%s) 查看。", e.detailLink))

	start := strings.TrimSpace(strings.SplitN(week, "~", 2)[0])
	doc := model.ReportDocument{
		Title:   "周报简要 " + week,
		Tags:    append([]string(nil), weeklyBriefTags...),
		Date:    start,
		Source:  defaultCasualSource,
		Summary: fmt.Sprintf("监控时间 %s，新进榜 %d 款，飙升 %d 款。详细玩法请登录监测汇总平台查看。", week, len(newIn), len(surge)),
		Content: strings.Join(lines, "\n"),
	}
	return briefItem("reports-weekly-db-"+week, doc)
}

func briefItem(id string, doc model.ReportDocument) model.MonitorItem {
	it := model.ItemFromDocument(itemID(id), model.MonitorCasualGame, doc)
	it.Category = model.CasualWeeklyBrief
	it.CasualSource = model.SourceWeChatDouyin
	it.Platform = "周报"
	it.Date = extract.ShortDate(doc.Date)
	it.Time = "12:00"
	it.Sentiment = ""
	return it
}

func loadWeeklyBriefFiles(ctx context.Context, env *Env) (Result, error) {
	idx, err := env.loadIndex(ctx)
	if err != nil {
		return Result{}, err
	}
	var items []model.MonitorItem
	for _, name := range idx.Reports {
		md, err := env.fetchText(ctx, casualPath(name))
		if err != nil {
			if !errors.Is(err, markdown.ErrHTML) && !errors.Is(err, markdown.ErrEmpty) {
				env.log.Warn(ctx, "weekly brief skipped", logger.String("file", name), logger.Error(err))
			}
			continue
		}
		date := or(extract.MonitorDate(md), trimExt(name, ".md"))
		doc := model.ReportDocument{
			Title:   "周报简要 " + date,
			Tags:    append([]string(nil), weeklyBriefTags...),
			Date:    date,
			Source:  defaultCasualSource,
			Summary: extract.OverviewSummary(md),
			Content: md,
		}
		items = append(items, briefItem("reports-weekly-"+date, doc))
	}
	return Result{Items: items}, nil
}
