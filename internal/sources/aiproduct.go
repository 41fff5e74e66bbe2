package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/monitor/internal/adapters/markdown"
	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/ranking"
)

// optionalText fetches a markdown resource. A blank resource is not a
// failure: ok is false and err is nil.
func (e *Env) optionalText(ctx context.Context, name string) (md string, ok bool, err error) {
	md, err = e.fetchText(ctx, name)
	if errors.Is(err, markdown.ErrEmpty) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return md, true, nil
}

func loadAICompetitorReport(ctx context.Context, env *Env) (Result, error) {
	md, ok, err := env.optionalText(ctx, ResourceAICompetitorMD)
	if err != nil || !ok {
		return Result{}, err
	}
	date := or(extract.DataPeriod(md), env.today().Format("2006-01-02"))
	doc := model.ReportDocument{
		Title:   "竞品动态报告（AI 品类销售监测）",
		Tags:    []string{"AI产品", "竞品动态", "销售监测"},
		Date:    date,
		Source:  "ai_sales_batch_crawler",
		Summary: fmt.Sprintf("数据周期：%s。Android 下载量与收入估算，产品总览与分产品分析。", date),
		Content: md,
	}
	it := model.ItemFromDocument("ai-competitor-report-md", model.MonitorAIProduct, doc)
	it.AIProductSub = model.AIProductCompetitor
	it.Platform = "报告"
	it.Date = extract.ShortDate(date)
	it.Time = "14:00"
	it.Sentiment = ""
	return Result{Items: []model.MonitorItem{it}}, nil
}

func loadAISalesRanking(ctx context.Context, env *Env) (Result, error) {
	recs, err := env.fetchRecords(ctx, ResourceAISalesCSV)
	if err != nil {
		return Result{}, err
	}
	rows := make([]ranking.MetricRow, 0, len(recs))
	latest := ""
	for _, r := range recs {
		rows = append(rows, ranking.MetricRow{
			Key:      r.Get("product_name"),
			Category: r.Get("category"),
			AppID:    r.Get("app_id"),
			Units:    r.Get("android_units"),
			Revenue:  r.Get("android_revenue"),
		})
		if d := r.Get("date"); d > latest {
			latest = d
		}
	}
	if latest == "" {
		latest = env.today().Format("2006-01-02")
	}
	agg, _ := ranking.Aggregate(rows)
	ranking.SortByRevenue(agg)
	if len(agg) == 0 {
		return Result{}, nil
	}

	items := make([]model.RankingEntry, len(agg))
	for i, a := range agg {
		revenue := float64(a.Revenue)
		items[i] = model.RankingEntry{
			ID:         fmt.Sprintf("ai-sales-%d-%s", i, a.Key),
			Rank:       i + 1,
			Name:       a.Key,
			Category:   a.Category,
			AppID:      a.AppID,
			Change:     model.NoChange,
			UpdateDate: latest,
			Score:      &revenue,
			Downloads:  ranking.FormatCompact(a.Units),
			Revenue:    ranking.FormatRevenueWan(&revenue),
		}
	}
	table := model.NewRankingTable(model.RankingCompetitor, "竞品动态", latest+" 14:00", "AI 品类销售监测", items)
	return Result{Rankings: []model.RankingTable{table}}, nil
}

func loadAIProductUADaily(ctx context.Context, env *Env) (Result, error) {
	md, ok, err := env.optionalText(ctx, ResourceAIProductUAMD)
	if err != nil || !ok {
		return Result{}, err
	}
	r := extract.ParseAIProductUADaily(md)
	summary := extract.OverviewSummary(r.Overview)
	if summary == "" {
		summary = fmt.Sprintf("来自%s的AI产品UA素材日报，涵盖竞品AI产品的素材分析，包括视频时长、投放平台、展示估值等关键信息。", r.Source)
	}
	date := or(r.Date, env.today().Format("2006-01-02"))
	doc := model.ReportDocument{
		Title:   r.Title + " - " + r.Date,
		Tags:    []string{"AI产品", "UA素材", "竞品", "素材分析", r.Source},
		Date:    extract.ShortDate(date),
		Time:    "09:00",
		Source:  r.Source,
		Summary: summary,
		Content: md,
	}
	it := model.ItemFromDocument("ai-product-ua-daily-"+strings.ReplaceAll(r.Date, "-", ""), model.MonitorAIProduct, doc)
	it.AIProductSub = model.AIProductUA
	it.Platform = r.Source
	it.Trend = "stable"
	it.URL = "#"
	return Result{Items: []model.MonitorItem{it}}, nil
}
