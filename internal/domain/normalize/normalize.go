package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/internal/domain/model"
)

// Untitled is the title of documents that carry none.
const Untitled = "未命名"

// Fallback is list-item metadata used where the payload is silent.
type Fallback struct {
	Title       string
	Tags        []string
	Date        string
	Time        string
	Source      string
	Description string
	CoverImage  string
	Score       *float64
}

// FromItem builds a Fallback from a Monitor Item.
func FromItem(it model.MonitorItem) *Fallback {
	return &Fallback{
		Title:       it.Title,
		Tags:        it.Tags,
		Date:        it.Date,
		Time:        it.Time,
		Source:      it.Source,
		Description: it.Description,
		CoverImage:  it.CoverImage,
		Score:       it.Score,
	}
}

func (f *Fallback) get() Fallback {
	if f == nil {
		return Fallback{}
	}
	return *f
}

// Item normalizes the document embedded in it, using it as fallback.
func Item(it model.MonitorItem) model.ReportDocument {
	return Normalize(it.ReportContent, FromItem(it))
}

// Normalize converts raw into a Report Document. It never fails.
func Normalize(raw string, fb *Fallback) model.ReportDocument {
	f := fb.get()
	switch p := Decode(raw).(type) {
	case Empty:
		return fromFallback(f, model.NoContent)
	case Text:
		return fromFallback(f, p.Raw)
	case Canonical:
		return canonical(p, f)
	case DailyHot:
		return dailyHot(p, f)
	case DailyAI:
		return dailyAI(p, f)
	case DailyAIOverview:
		return dailyAIOverview(p, f)
	case WeeklyReport:
		return weeklyReport(p, f)
	case GameRanking:
		return gameRanking(p, f)
	}
	return fromFallback(f, strings.TrimSpace(raw))
}

func fromFallback(f Fallback, content string) model.ReportDocument {
	return model.ReportDocument{
		Title:      or(f.Title, Untitled),
		Tags:       f.Tags,
		Date:       f.Date,
		Time:       f.Time,
		Source:     f.Source,
		Summary:    f.Description,
		Content:    content,
		Score:      f.Score,
		CoverImage: f.CoverImage,
	}
}

func canonical(p Canonical, f Fallback) model.ReportDocument {
	d := model.ReportDocument{
		Title:      pick(p.Title, or(f.Title, Untitled)),
		Tags:       p.Tags,
		Date:       pick(p.Date, f.Date),
		Time:       pick(p.Time, f.Time),
		Source:     pick(p.Source, f.Source),
		Summary:    pick(p.Summary, f.Description),
		Content:    or(p.Content, model.NoContent),
		Score:      p.Score,
		CoverImage: pick(p.CoverImage, f.CoverImage),
	}
	if d.Tags == nil {
		d.Tags = f.Tags
	}
	if d.Score == nil {
		d.Score = f.Score
	}
	var meta map[string]any
	if len(p.RawMeta) > 0 && json.Unmarshal(p.RawMeta, &meta) == nil {
		d.Meta = meta
	}
	return d
}

func dailyHot(p DailyHot, f Fallback) model.ReportDocument {
	var parts []string
	if p.Type != "" {
		parts = append(parts, "**性质**："+p.Type+"\n")
	}
	if p.Score != nil {
		parts = append(parts, "**评分**："+extract.FormatNumber(*p.Score)+"\n")
	}
	if p.Heat != nil {
		parts = append(parts, "**热度**："+extract.FormatNumber(*p.Heat)+"\n")
	}
	summary := pick(p.Summary, "")
	if summary != "" {
		parts = append(parts, "## 摘要\n\n"+summary+"\n\n")
	}
	if p.UAInspiration != "" {
		parts = append(parts, "## UA灵感\n\n"+p.UAInspiration+"\n")
	}

	d := model.ReportDocument{
		Title:      pick(p.Title, or(f.Title, "热点日报")),
		Tags:       f.Tags,
		Date:       f.Date,
		Time:       f.Time,
		Source:     or(f.Source, "热点监测"),
		Summary:    pick(p.Summary, f.Description),
		Content:    or(strings.Join(parts, "\n"), summary, model.NoContent),
		Score:      p.Score,
		CoverImage: pick(p.CoverImage, f.CoverImage),
		Meta:       map[string]any{},
	}
	if p.Type != "" {
		d.Tags = []string{p.Type, "热点"}
	}
	if d.Score == nil {
		d.Score = f.Score
	}
	if p.Heat != nil {
		d.Meta["heat"] = *p.Heat
	}
	if p.UAInspiration != "" {
		d.Meta["uaInspiration"] = p.UAInspiration
	}
	return d
}

func dailyAI(p DailyAI, f Fallback) model.ReportDocument {
	var parts []string
	if p.Score != nil {
		parts = append(parts, "**得分**："+extract.FormatNumber(*p.Score)+"\n")
	}
	if len(p.Tags) > 0 {
		parts = append(parts, "**标签**："+strings.Join(p.Tags, "、")+"\n")
	}
	if p.Viewpoint != "" {
		parts = append(parts, "## 观点\n\n"+p.Viewpoint+"\n\n")
	}
	summary := pick(p.Summary, "")
	if summary != "" {
		parts = append(parts, "## 摘要\n\n"+summary+"\n")
	}

	d := model.ReportDocument{
		Title:   pick(p.Title, or(f.Title, "AI日报")),
		Tags:    p.Tags,
		Date:    f.Date,
		Time:    f.Time,
		Source:  or(f.Source, "小红书"),
		Summary: pick(p.Summary, f.Description),
		Content: or(strings.Join(parts, "\n"), summary, p.Viewpoint, model.NoContent),
		Score:   p.Score,
	}
	if d.Tags == nil {
		d.Tags = f.Tags
	}
	if d.Score == nil {
		d.Score = f.Score
	}
	if p.Viewpoint != "" {
		d.Meta = map[string]any{"viewpoint": p.Viewpoint}
	}
	return d
}

func dailyAIOverview(p DailyAIOverview, f Fallback) model.ReportDocument {
	return model.ReportDocument{
		Title:   or(f.Title, "AI日报概览"),
		Tags:    f.Tags,
		Date:    f.Date,
		Time:    f.Time,
		Source:  or(f.Source, "小红书"),
		Summary: extract.Truncate(p.Raw, 200),
		Content: p.Raw,
	}
}

func weeklyReport(p WeeklyReport, f Fallback) model.ReportDocument {
	var b strings.Builder
	if p.Period != nil {
		days := 7
		if p.Period.Days != nil {
			days = *p.Period.Days
		}
		fmt.Fprintf(&b, "**监控时间段**: %s 至 %s (共 %d 天)\n\n", p.Period.StartDate, p.Period.EndDate, days)
	}
	header := p.Card.HeaderTitle()
	if header != "" {
		b.WriteString("# " + header + "\n\n")
	}
	if p.Card != nil {
		for _, el := range p.Card.Elements {
			if el.Tag == "hr" {
				b.WriteString("\n---\n\n")
			} else if el.Text != nil && el.Text.Content != "" {
				b.WriteString(el.Text.Content + "\n\n")
			}
			for _, fl := range el.Fields {
				if fl.Text != nil && fl.Text.Content != "" {
					b.WriteString(fl.Text.Content + "\n\n")
				}
			}
		}
	}

	d := model.ReportDocument{
		Title:   or(f.Title, header, "周报"),
		Tags:    f.Tags,
		Date:    f.Date,
		Time:    f.Time,
		Source:  or(p.Company, f.Source, "周报"),
		Summary: f.Description,
		Content: or(b.String(), model.NoContent),
		Score:   f.Score,
		Meta:    map[string]any{},
	}
	if p.rawPeriod != nil {
		d.Meta["period"] = p.rawPeriod
	}
	if p.rawCard != nil {
		d.Meta["card"] = p.rawCard
	}
	return d
}

func gameRanking(p GameRanking, f Fallback) model.ReportDocument {
	var b strings.Builder
	b.WriteString("| 排名 | 名称 | 开发者 | 类型 | 变化 |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, e := range p.Items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			strconv.Itoa(e.Rank), cell(e.Name), cell(e.Developer), cell(e.Category), cell(e.ChangeOrNone()))
	}

	summary := f.Description
	if summary == "" {
		summary = fmt.Sprintf("%s · %d 款", or(p.Period, "榜单"), len(p.Items))
	}
	return model.ReportDocument{
		Title:   pick(p.Title, or(f.Title, "榜单")),
		Tags:    f.Tags,
		Date:    f.Date,
		Time:    f.Time,
		Source:  or(f.Source, "榜单"),
		Summary: summary,
		Content: b.String(),
		Score:   f.Score,
		Meta:    map[string]any{"type": p.Type, "period": p.Period, "updateTime": p.UpdateTime},
	}
}

func cell(s string) string {
	if s == "" {
		return model.NoChange
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

// pick returns *p when present, else def.
func pick(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}

// or returns the first non-empty value.
func or(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
