package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/monitor/internal/adapters/snapshotdb"
	"github.com/okian/monitor/internal/domain/dedupe"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/ranking"
	"github.com/okian/monitor/pkg/logger"
)

// Change types written by the SensorTower rank tracker.
const (
	ChangeTypeNewEntry = "🆕 新进榜单"
	ChangeTypeSurge    = "🚀 排名飙升"
)

const (
	metadataQuery = `SELECT app_id, os, name, publisher_name, release_date FROM app_metadata`
	topQuery      = `SELECT rank_date, country, chart_type, rank, app_id FROM %s ORDER BY rank_date DESC, country, chart_type, rank ASC`
	changesQuery  = `SELECT rank_date_current, rank_date_last, signal, app_name, app_id, country, platform, current_rank, last_week_rank, "change", change_type, downloads, revenue, publisher_name FROM rank_changes ORDER BY rank_date_current DESC, country, platform, current_rank ASC`
)

type appMeta struct {
	name, publisher, releaseDate string
}

// appMetadata indexes app metadata by app id and lower-case OS.
func (e *Env) appMetadata(ctx context.Context) map[string]appMeta {
	out := make(map[string]appMeta)
	rows, err := e.query(ctx, ResourceSensorTowerDB, metadataQuery)
	if err != nil {
		e.log.Warn(ctx, "app metadata unavailable", logger.Error(err))
		return out
	}
	for _, r := range rows {
		out[metaKey(r.String("app_id"), r.String("os"))] = appMeta{
			name:        r.String("name"),
			publisher:   r.String("publisher_name"),
			releaseDate: releaseDate(r.String("release_date")),
		}
	}
	return out
}

func metaKey(appID, os string) string {
	return appID + "|" + strings.ToLower(os)
}

// releaseDate renders an ISO timestamp as YYYY-MM-DD. Unparseable values are
// returned unchanged.
func releaseDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.DateOnly)
		}
	}
	return s
}

func loadSensorTowerTop(ctx context.Context, env *Env) (Result, error) {
	if _, err := env.dbs.Handle(ResourceSensorTowerDB).DB(ctx); err != nil {
		return Result{}, err
	}
	meta := env.appMetadata(ctx)

	type chart struct {
		typ                     model.RankingType
		platform                string
		date, country, listType string
		items                   []model.RankingEntry
	}
	var charts []*chart
	index := make(map[string]*chart)
	for _, src := range []struct {
		table    string
		platform string
		typ      model.RankingType
	}{
		{"apple_top100", "iOS", model.RankingIOS},
		{"android_top100", "Android", model.RankingAndroid},
	} {
		rows, err := env.query(ctx, ResourceSensorTowerDB, fmt.Sprintf(topQuery, src.table))
		if err != nil {
			env.log.Warn(ctx, "top chart table skipped", logger.String("table", src.table), logger.Error(err))
			continue
		}
		for _, r := range rows {
			date, country, listType := r.String("rank_date"), r.String("country"), r.String("chart_type")
			rank, _ := r.Int("rank")
			appID := r.String("app_id")
			m := meta[metaKey(appID, src.platform)]

			key := strings.Join([]string{src.platform, date, country, listType}, "|")
			c, ok := index[key]
			if !ok {
				c = &chart{typ: src.typ, platform: src.platform, date: date, country: country, listType: listType}
				index[key] = c
				charts = append(charts, c)
			}
			c.items = append(c.items, model.RankingEntry{
				ID:          fmt.Sprintf("%s-%s-%s-%s-%d-%s", src.platform, date, country, listType, rank, appID),
				Rank:        int(rank),
				Name:        or(m.name, appID),
				Developer:   m.publisher,
				Country:     country,
				ListType:    listType,
				AppID:       appID,
				ReleaseDate: m.releaseDate,
				UpdateDate:  date,
			})
		}
	}

	tables := make([]model.RankingTable, 0, len(charts))
	for _, c := range charts {
		items, _ := dedupe.Filter(c.items, func(e model.RankingEntry) string {
			return dedupe.RankingKey(string(c.typ), e.Rank, e.AppID)
		})
		ranking.RankOrder(items)
		title := fmt.Sprintf("SensorTower %s Top100 · %s · %s", c.platform, c.country, c.listType)
		tables = append(tables, model.NewRankingTable(c.typ, title, c.date, "Top100", items))
	}
	return Result{Rankings: tables}, nil
}

// mover is one row of the weekly rank change tracker.
type mover struct {
	entry     model.RankingEntry
	lastDate  string
	platform  string
	downloads *float64
	revenue   *float64
}

func (e *Env) movers(ctx context.Context) ([]mover, error) {
	if _, err := e.dbs.Handle(ResourceSensorTowerDB).DB(ctx); err != nil {
		return nil, err
	}
	meta := e.appMetadata(ctx)
	rows, err := e.query(ctx, ResourceSensorTowerDB, changesQuery)
	if err != nil {
		return nil, err
	}
	out := make([]mover, 0, len(rows))
	for _, r := range rows {
		out = append(out, newMover(r, meta))
	}
	return out, nil
}

func newMover(r snapshotdb.Row, meta map[string]appMeta) mover {
	appID := r.String("app_id")
	platform := "iOS"
	if strings.EqualFold(r.String("platform"), "android") {
		platform = "Android"
	}
	m := meta[metaKey(appID, platform)]
	week, country := r.String("rank_date_current"), r.String("country")
	rank, _ := r.Int("current_rank")

	mv := mover{lastDate: r.String("rank_date_last"), platform: platform}
	if v, ok := r.Float("downloads"); ok {
		mv.downloads = &v
	}
	if v, ok := r.Float("revenue"); ok {
		mv.revenue = &v
	}
	mv.entry = model.RankingEntry{
		ID:            fmt.Sprintf("rc-%s-%s-%s-%d-%s", week, country, platform, rank, appID),
		Rank:          int(rank),
		Name:          or(m.name, r.String("app_name"), appID),
		Developer:     or(strings.TrimSpace(r.String("publisher_name")), m.publisher),
		Downloads:     ranking.FormatWan(mv.downloads),
		Revenue:       ranking.FormatRevenueWan(mv.revenue),
		PlatformLabel: platform,
		Country:       country,
		AppID:         appID,
		ReleaseDate:   m.releaseDate,
		Signal:        r.String("signal"),
		LastRankRaw:   r.String("last_week_rank"),
		ChangeType:    r.String("change_type"),
		Change:        r.String("change"),
		UpdateDate:    week,
	}
	return mv
}

type moverWeek struct {
	week   string
	movers []mover
}

// byWeek groups movers by current rank date, newest first.
func byWeek(ms []mover) []moverWeek {
	index := make(map[string]int)
	var weeks []moverWeek
	for _, m := range ms {
		w := m.entry.UpdateDate
		i, ok := index[w]
		if !ok {
			i = len(weeks)
			index[w] = i
			weeks = append(weeks, moverWeek{week: w})
		}
		weeks[i].movers = append(weeks[i].movers, m)
	}
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].week > weeks[j].week })
	return weeks
}

func loadSensorTowerMovers(ctx context.Context, env *Env) (Result, error) {
	ms, err := env.movers(ctx)
	if err != nil {
		return Result{}, err
	}
	weeks := byWeek(ms)
	var res Result
	for i, w := range weeks {
		entries := make([]model.RankingEntry, len(w.movers))
		for j, m := range w.movers {
			entries[j] = m.entry
		}
		env.policy.Sort(entries)
		if i == 0 {
			res.Rankings = append(res.Rankings, model.NewRankingTable(model.RankingMovers,
				"榜单异动 · 本周焦点", w.week, "对比 "+w.movers[0].lastDate, spotlight(entries)))
		}
		res.Rankings = append(res.Rankings, model.NewRankingTable(model.RankingMovers,
			"榜单异动 "+w.week, w.week, "对比 "+w.movers[0].lastDate, entries))
		res.Items = append(res.Items, env.sensorTowerBrief(w))
	}
	return res, nil
}

// spotlight keeps the highest-placed mover (lowest current rank) of every
// (country, signal, platform) group, groups ordered by country, signal and
// platform. Ties keep the earlier entry.
func spotlight(entries []model.RankingEntry) []model.RankingEntry {
	best := make(map[string]int, len(entries))
	var out []model.RankingEntry
	for _, e := range entries {
		key := spotlightKey(e)
		i, ok := best[key]
		if !ok {
			best[key] = len(out)
			out = append(out, e)
			continue
		}
		if e.Rank < out[i].Rank {
			out[i] = e
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return spotlightKey(out[i]) < spotlightKey(out[j])
	})
	return out
}

func spotlightKey(e model.RankingEntry) string {
	return e.Country + "\x00" + e.Signal + "\x00" + e.PlatformLabel
}

// sensorTowerBrief renders the weekly brief of one tracker week: new entries
// inside the top cut-off by rank, then the largest surges.
func (e *Env) sensorTowerBrief(w moverWeek) model.MonitorItem {
	var newIn, surge []mover
	for _, m := range w.movers {
		switch m.entry.ChangeType {
		case ChangeTypeNewEntry:
			if m.entry.Rank <= e.newEntryTop {
				newIn = append(newIn, m)
			}
		case ChangeTypeSurge:
			surge = append(surge, m)
		}
	}
	sort.SliceStable(newIn, func(i, j int) bool { return newIn[i].entry.Rank < newIn[j].entry.Rank })
	sort.SliceStable(surge, func(i, j int) bool {
		return ranking.SurgeValue(surge[i].entry.Change) > ranking.SurgeValue(surge[j].entry.Change)
	})
	if len(surge) > e.surgeTop {
		surge = surge[:e.surgeTop]
	}

	last := w.movers[0].lastDate
	lines := []string{
		fmt.Sprintf("**统计周期**：本周榜单日期 %s，对比上周 %s。", w.week, last),
		"", "---", "",
		fmt.Sprintf("## 一、本周新进 Top%d", e.newEntryTop),
		"",
		fmt.Sprintf("当周新进榜单且当前排名在 Top%d 内的产品（按当前排名排序）：", e.newEntryTop),
		"",
		"| 排名 | 产品名 | 开发者 | 国家/地区 | 平台 | 下载量 | 收入 |",
		"|------|--------|--------|-----------|------|--------|------|",
	}
	for _, m := range newIn {
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |",
			m.entry.Rank, m.entry.Name, or(m.entry.Developer, ranking.Placeholder), m.entry.Country, m.platform,
			m.entry.Downloads, m.entry.Revenue))
	}
	if len(newIn) == 0 {
		lines = append(lines, fmt.Sprintf("| — | 本周无新进 Top%d 记录 | — | — | — | — | — |", e.newEntryTop))
	}
	lines = append(lines,
		"", "---", "",
		fmt.Sprintf("## 二、本周排名飙升 Top%d", e.surgeTop),
		"",
		fmt.Sprintf("当周排名飙升中，上升幅度最大的 %d 款产品：", e.surgeTop),
		"",
		"| 当前排名 | 上周排名 | 上升幅度 | 产品名 | 开发者 | 国家/地区 | 平台 | 下载量 | 收入 |",
		"|----------|----------|----------|--------|--------|-----------|------|--------|------|",
	)
	for _, m := range surge {
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s | %s |",
			m.entry.Rank, m.entry.LastRankRaw, m.entry.Change, m.entry.Name, or(m.entry.Developer, ranking.Placeholder),
			m.entry.Country, m.platform, m.entry.Downloads, m.entry.Revenue))
	}
	if len(surge) == 0 {
		lines = append(lines, "| — | — | — | 本周无排名飙升记录 | — | — | — | — | — |")
	}
	lines = append(lines, "", "---", "", fmt.Sprintf("详情请进入 [%s](%s)", e.detailLink, e.detailLink), "")

	title := fmt.Sprintf("SensorTower 周报（%s）", w.week)
	doc := model.ReportDocument{
		Title:   title,
		Date:    w.week,
		Source:  "SensorTower",
		Content: strings.Join(lines, "\n"),
	}
	return model.MonitorItem{
		ID:            itemID("sensortower-weekly-" + w.week),
		Type:          model.MonitorCasualGame,
		Title:         title,
		Source:        "SensorTower",
		Platform:      "SensorTower",
		Date:          w.week,
		Description:   fmt.Sprintf("本周新进 Top%d %d 条，排名飙升 Top%d %d 条。", e.newEntryTop, len(newIn), e.surgeTop, len(surge)),
		Tags:          []string{"周报", "SensorTower", "休闲游戏"},
		Language:      "zh",
		Category:      model.CasualWeeklyBrief,
		CasualSource:  model.SourceSensorTower,
		ReportContent: doc.Encode(),
	}
}
