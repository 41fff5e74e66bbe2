package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/internal/domain/model"
)

// HotTrendCover is the cover image attached to trending-topic reports.
const HotTrendCover = "/img_v3_02ud_b81bf139-6ea7-4b85-9a02-757d54361c4g.jpg"

func (e *Env) shortToday() string { return e.today().Format("01-02") }

func loadHotTrend(ctx context.Context, env *Env) (Result, error) {
	md, ok, err := env.optionalText(ctx, ResourceHotTrendMD)
	if err != nil || !ok {
		return Result{}, err
	}
	r := extract.ParseHotReport(md)
	tags := []string{"热点", "UA灵感"}
	if r.Type != "" {
		tags = append([]string{r.Type}, tags...)
	}
	doc := model.ReportDocument{
		Title:      "热点日报：" + r.Title,
		Tags:       tags,
		Date:       env.shortToday(),
		Time:       "09:00",
		Source:     "热点监测",
		Summary:    r.Summary,
		Content:    or(r.Body(), r.Summary),
		Score:      r.Score,
		CoverImage: HotTrendCover,
	}
	it := model.ItemFromDocument("hot-trend-1", model.MonitorHotTrend, doc)
	it.Platform = "全网"
	it.Views = int64(r.Heat) * 1000
	it.Engagement = int64(r.Heat) * 100
	it.Trend = "up"
	it.Sentiment = "positive"
	it.URL = "#"
	return Result{Items: []model.MonitorItem{it}}, nil
}

func loadAIDaily(ctx context.Context, env *Env) (Result, error) {
	md, ok, err := env.optionalText(ctx, ResourceAIDailyMD)
	if err != nil || !ok {
		return Result{}, err
	}
	d := extract.ParseAIDaily(md)
	date := env.shortToday()
	if d.Date != "" {
		date = extract.ShortDate(d.Date)
	}

	var items []model.MonitorItem
	if d.Overview != "" {
		doc := model.ReportDocument{
			Title:   strings.TrimSpace("Rednotes AI日报概览 " + d.Date),
			Tags:    []string{"AI日报", "概览", "小红书"},
			Date:    date,
			Time:    "08:00",
			Source:  "小红书",
			Summary: extract.Truncate(d.Overview, 300),
			Content: d.Overview,
		}
		it := model.ItemFromDocument("ai-daily-overview", model.MonitorAIHot, doc)
		it.Platform = "Rednotes"
		it.Views = 5000
		it.Engagement = 300
		it.Trend = "up"
		it.Sentiment = "positive"
		it.URL = "#"
		items = append(items, it)
	}

	for i, entry := range d.Entries {
		tags := entry.Tags
		if len(tags) > 5 {
			tags = tags[:5]
		}
		if len(tags) == 0 {
			tags = []string{"AI", "小红书"}
		}
		doc := model.ReportDocument{
			Title:   entry.Title,
			Tags:    tags,
			Date:    date,
			Time:    extract.ClockSlot(i),
			Source:  "小红书",
			Summary: extract.Truncate(entry.Summary, 250),
			Content: or(entry.Body(), entry.Summary, entry.Viewpoint),
			Score:   entry.Score,
		}
		it := model.ItemFromDocument(fmt.Sprintf("ai-daily-%d", i), model.MonitorAIHot, doc)
		it.Platform = "Rednotes"
		it.Trend = "up"
		it.Sentiment = "positive"
		it.URL = entry.Link
		items = append(items, it)
	}
	return Result{Items: items}, nil
}

func loadUADaily(ctx context.Context, env *Env) (Result, error) {
	md, ok, err := env.optionalText(ctx, ResourceUADailyMD)
	if err != nil || !ok {
		return Result{}, err
	}
	r := extract.ParseUADaily(md)
	summary := extract.OverviewSummary(r.Overview)
	if summary == "" {
		summary = fmt.Sprintf("来自%s的UA素材日报，涵盖竞品游戏的素材分析，包括视频时长、投放平台、展示估值等关键信息。", r.Source)
	}
	date := env.shortToday()
	if r.Date != "" {
		date = extract.ShortDate(r.Date)
	}
	doc := model.ReportDocument{
		Title:   r.Title + " - " + r.Date,
		Tags:    []string{"UA素材", "竞品", "素材分析", r.Source},
		Date:    date,
		Time:    "09:00",
		Source:  r.Source,
		Summary: summary,
		Content: md,
	}
	it := model.ItemFromDocument("ua-daily-"+strings.ReplaceAll(r.Date, "-", ""), model.MonitorCasualGame, doc)
	it.Category = model.CasualCompetitor
	it.CompetitorSub = model.CompetitorUA
	it.Platform = r.Source
	it.Trend = "stable"
	it.URL = "#"
	return Result{Items: []model.MonitorItem{it}}, nil
}
