package sources

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/monitor/internal/adapters/jsondoc"
	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/domain/normalize"
	"github.com/okian/monitor/pkg/logger"
)

const weeklyReportsQuery = `SELECT id, company_name, start_date, end_date, report_content, created_at
FROM weekly_reports
ORDER BY start_date DESC, company_name ASC`

// weeklyCard is the stored body of a competitor weekly report.
type weeklyCard struct {
	Company   string          `json:"company"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Card      *normalize.Card `json:"card"`
}

func loadCompetitorWeekly(ctx context.Context, env *Env) (Result, error) {
	rows, err := env.query(ctx, ResourceCompetitorDB, weeklyReportsQuery)
	if err != nil {
		return Result{}, err
	}
	items := make([]model.MonitorItem, 0, len(rows))
	for _, r := range rows {
		company, start, end := r.String("company_name"), r.String("start_date"), r.String("end_date")
		raw := r.String("report_content")
		body, err := jsondoc.DecodeStrict[weeklyCard]([]byte(raw))
		if err != nil {
			env.log.Warn(ctx, "weekly report content unreadable",
				logger.String("company", company), logger.String("start", start), logger.Error(err))
			body = weeklyCard{Company: company, StartDate: start, EndDate: end}
		}

		tags := []string{"竞品监控"}
		for _, marker := range []string{"玩法更新", "线下活动"} {
			if strings.Contains(raw, marker) {
				tags = append(tags, marker)
			}
		}
		it := model.MonitorItem{
			ID:            itemID("weekly-report-" + r.String("id")),
			Type:          model.MonitorCompetitor,
			Title:         fmt.Sprintf("📊 %s 周报 (%s ~ %s)", company, extract.ShortDate(start), extract.ShortDate(end)),
			Source:        company + " 周报",
			Platform:      "周报",
			CompanyName:   company,
			Date:          extract.ShortDate(start),
			Time:          clockOf(r.String("created_at")),
			Description:   weeklyDescription(body),
			Tags:          tags,
			Language:      "中文",
			Trend:         "stable",
			Sentiment:     "neutral",
			URL:           "#",
			Score:         averageUsability(body.Card),
			ReportContent: raw,
		}
		items = append(items, it)
	}
	return Result{Items: items}, nil
}

// averageUsability averages every usability score in the card's element and
// field texts, rounded to one decimal. Nil when the card has none.
func averageUsability(card *normalize.Card) *float64 {
	if card == nil {
		return nil
	}
	var sum float64
	var n int
	add := func(b *normalize.TextBlock) {
		if b == nil {
			return
		}
		if v, ok := extract.UsabilityScore(b.Content); ok {
			sum += v
			n++
		}
	}
	for _, el := range card.Elements {
		add(el.Text)
		for _, f := range el.Fields {
			add(f.Text)
		}
	}
	if n == 0 {
		return nil
	}
	return model.Float(math.Round(sum/float64(n)*10) / 10)
}

func weeklyDescription(c weeklyCard) string {
	desc := fmt.Sprintf("%s 在 %s 至 %s 期间的社媒监控周报。", c.Company, c.StartDate, c.EndDate)
	if c.Card == nil {
		return desc
	}
	platforms := 0
	for _, el := range c.Card.Elements {
		for _, f := range el.Fields {
			if f.Text != nil && strings.Contains(f.Text.Content, "可用性评分") {
				platforms++
				break
			}
		}
	}
	if platforms > 0 {
		desc += fmt.Sprintf(" 监控了 %d 个平台的动态更新。", platforms)
	}
	return desc
}

// clockOf returns the HH:MM of a stored timestamp, or "00:00".
func clockOf(ts string) string {
	for _, layout := range []string{time.DateTime, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(ts)); err == nil {
			return t.Format("15:04")
		}
	}
	return "00:00"
}
