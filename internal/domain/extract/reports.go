package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	labelDate     = regexp.MustCompile(`\*\*日期\*\*[：:]\s*(\d{4}-\d{2}-\d{2})`)
	labelMonitor  = regexp.MustCompile(`\*\*监控日期\*\*[：:]\s*(\d{4}-\d{2}-\d{2})`)
	labelSource   = regexp.MustCompile(`\*\*素材来源\*\*[：:]\s*([^\n]+)`)
	labelPeriod   = regexp.MustCompile(`数据周期[：:]\s*(\d{4}-\d{2}-\d{2})`)
	anyDate       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	labelScore    = regexp.MustCompile(`\*\*可用性评分\*\*:\s*(\d+(?:\.\d+)?)\s*⭐`)
	firstHeading  = regexp.MustCompile(`(?m)^#\s*([^\n]+)`)
	stopEOFOnly   = []*regexp.Regexp{}
	stopSubHeader = []*regexp.Regexp{regexp.MustCompile(`###`), regexp.MustCompile(`##`)}

	hotTitle   = regexp.MustCompile(`(?m)^\d+\.\s*([^\n]+)`)
	hotScore   = regexp.MustCompile(`🟣\s*(\d+(?:\.\d+)?)`)
	hotHeat    = regexp.MustCompile(`🔥\s*热度\s*\n(\d+)`)
	hotSummary = regexp.MustCompile(`摘要[：:]\s*`)
	hotType    = regexp.MustCompile(`性质[：:]\s*([^\n]+)`)
	hotUA      = regexp.MustCompile(`UA灵感[：:]\s*`)
	hotStops   = []*regexp.Regexp{regexp.MustCompile(`\n\n`), regexp.MustCompile(`性质[：:]`)}
	hotUAStops = []*regexp.Regexp{regexp.MustCompile(`\n\n生成适配`)}

	aiDate       = regexp.MustCompile(`日报\s*(\d{4}-\d{2}-\d{2})`)
	aiOverview   = regexp.MustCompile(`📌【概览】\s*\n`)
	aiEntryHead  = regexp.MustCompile(`🔷【(.+?)】\s*\n`)
	aiEntryStop  = []*regexp.Regexp{regexp.MustCompile(`🔷`)}
	aiScore      = regexp.MustCompile(`⭐\s*得分[：:]\s*(\d+(?:\.\d+)?)`)
	aiTags       = regexp.MustCompile(`🏷️\s*标签[：:]\s*([^\n]+)`)
	aiTagSplit   = regexp.MustCompile(`[、,，]`)
	aiViewpoint  = regexp.MustCompile(`🧠\s*观点[：:]\s*`)
	aiViewStops  = []*regexp.Regexp{regexp.MustCompile(`📝`)}
	aiSummary    = regexp.MustCompile(`📝\s*摘要[：:]\s*`)
	aiLink       = regexp.MustCompile(`🔗\s*原文链接[：:]\s*([^\n]+)`)
	uaOverview   = regexp.MustCompile(`## UA 素材日报[^\n]*\n\n`)
	aiUAOverview = regexp.MustCompile(`### 一、各分类 AI 产品 UA 素材概览\s*\n`)
	aiUAStops    = []*regexp.Regexp{regexp.MustCompile(`### 二、`), regexp.MustCompile(`##`)}
)

func parseFloat(s string) (*float64, bool) {
	if s == "" {
		return nil, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// ReportDate returns the "**日期**: YYYY-MM-DD" label value.
func ReportDate(md string) string { return submatch(labelDate, md) }

// MonitorDate returns the "**监控日期**: YYYY-MM-DD" label value.
func MonitorDate(md string) string { return submatch(labelMonitor, md) }

// MaterialSource returns the "**素材来源**" label value or def.
func MaterialSource(md, def string) string {
	if s := submatch(labelSource, md); s != "" {
		return s
	}
	return def
}

// DataPeriod returns the "数据周期" date of a report, falling back to the
// first ISO date anywhere in the text.
func DataPeriod(md string) string {
	if d := submatch(labelPeriod, md); d != "" {
		return d
	}
	return anyDate.FindString(md)
}

// FirstHeading returns the text of the first level-one heading line.
func FirstHeading(md string) string { return submatch(firstHeading, md) }

// UsabilityScore returns the first "**可用性评分**: N ⭐" value in text.
func UsabilityScore(text string) (float64, bool) {
	v, ok := parseFloat(submatch(labelScore, text))
	if !ok {
		return 0, false
	}
	return *v, true
}

// HotReport holds the fields of a trending-topic daily report.
type HotReport struct {
	Title         string
	Score         *float64
	Heat          int
	Summary       string
	Type          string
	UAInspiration string
}

// ParseHotReport extracts a trending-topic daily report.
func ParseHotReport(md string) HotReport {
	r := HotReport{Title: submatch(hotTitle, md)}
	if r.Title == "" {
		r.Title = "热点日报"
	}
	r.Score, _ = parseFloat(submatch(hotScore, md))
	if h, err := strconv.Atoi(submatch(hotHeat, md)); err == nil {
		r.Heat = h
	}
	if s, ok := capture(md, hotSummary, hotStops, false); ok {
		r.Summary = strings.TrimSpace(s)
	}
	r.Type = submatch(hotType, md)
	if s, ok := capture(md, hotUA, hotUAStops, true); ok {
		r.UAInspiration = strings.TrimSpace(s)
	}
	return r
}

// Body renders the report as labelled markdown.
func (r HotReport) Body() string {
	var parts []string
	if r.Type != "" {
		parts = append(parts, "**性质**："+r.Type+"\n")
	}
	if r.Score != nil {
		parts = append(parts, "**评分**："+FormatNumber(*r.Score)+"\n")
	}
	parts = append(parts, "**热度**："+strconv.Itoa(r.Heat)+"\n")
	if r.Summary != "" {
		parts = append(parts, "## 摘要\n\n"+r.Summary+"\n\n")
	}
	if r.UAInspiration != "" {
		parts = append(parts, "## UA灵感\n\n"+r.UAInspiration+"\n")
	}
	return strings.Join(parts, "\n")
}

// AIEntry is one item of an AI daily digest.
type AIEntry struct {
	Title     string
	Score     *float64
	Tags      []string
	Viewpoint string
	Summary   string
	Link      string
}

// Body renders the entry as labelled markdown.
func (e AIEntry) Body() string {
	var parts []string
	if e.Score != nil {
		parts = append(parts, "**得分**："+FormatNumber(*e.Score)+"\n")
	}
	if len(e.Tags) > 0 {
		parts = append(parts, "**标签**："+strings.Join(e.Tags, "、")+"\n")
	}
	if e.Viewpoint != "" {
		parts = append(parts, "## 观点\n\n"+e.Viewpoint+"\n\n")
	}
	if e.Summary != "" {
		parts = append(parts, "## 摘要\n\n"+e.Summary+"\n")
	}
	return strings.Join(parts, "\n")
}

// AIDaily is an AI daily digest: a dated overview followed by entries.
type AIDaily struct {
	Date     string
	Overview string
	Entries  []AIEntry
}

// ParseAIDaily extracts an AI daily digest.
func ParseAIDaily(md string) AIDaily {
	d := AIDaily{Date: submatch(aiDate, md)}
	if s, ok := capture(md, aiOverview, aiEntryStop, false); ok {
		d.Overview = strings.TrimSpace(s)
	}
	rest := md
	for {
		loc := aiEntryHead.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		title := strings.TrimSpace(rest[loc[2]:loc[3]])
		rest = rest[loc[1]:]
		body, _ := until(rest, aiEntryStop, true, true)
		rest = rest[len(body):]
		d.Entries = append(d.Entries, parseAIEntry(title, strings.TrimSpace(body)))
	}
	return d
}

func parseAIEntry(title, body string) AIEntry {
	e := AIEntry{Title: title, Link: "#"}
	e.Score, _ = parseFloat(submatch(aiScore, body))
	if raw := submatch(aiTags, body); raw != "" {
		for _, t := range aiTagSplit.Split(raw, -1) {
			if t = strings.TrimSpace(t); t != "" {
				e.Tags = append(e.Tags, t)
			}
		}
	}
	if s, ok := capture(body, aiViewpoint, aiViewStops, true); ok {
		e.Viewpoint = strings.TrimSpace(s)
	}
	if s, ok := capture(body, aiSummary, stopEOFOnly, true); ok {
		e.Summary = strings.TrimSpace(s)
	}
	if e.Summary == "" {
		e.Summary = e.Viewpoint
	}
	if l := submatch(aiLink, body); l != "" && l != "点击打开" {
		e.Link = l
	}
	return e
}

// UADaily holds the fields of a UA creative daily report.
type UADaily struct {
	Date     string
	Source   string
	Title    string
	Overview string
}

// ParseUADaily extracts a UA creative daily report.
func ParseUADaily(md string) UADaily {
	r := UADaily{Date: ReportDate(md), Source: MaterialSource(md, "广大大"), Title: FirstHeading(md)}
	if r.Title == "" {
		r.Title = "UA 素材日报"
	}
	if s, ok := capture(md, uaOverview, stopSubHeader, true); ok {
		r.Overview = strings.TrimSpace(s)
	}
	return r
}

// ParseAIProductUADaily extracts an AI product UA creative daily report. Its
// overview is the first category section.
func ParseAIProductUADaily(md string) UADaily {
	r := UADaily{Date: ReportDate(md), Source: MaterialSource(md, "广大大"), Title: "AI 产品 UA 素材日报"}
	if rest, ok := after(md, aiUAOverview); ok {
		s, _ := until(rest, aiUAStops, true, true)
		r.Overview = strings.TrimSpace(s)
	}
	return r
}

// OverviewSummary flattens an overview and caps it at 300 runes.
func OverviewSummary(overview string) string {
	r := []rune(overview)
	if len(r) <= 300 {
		return Flatten(overview)
	}
	return Flatten(string(r[:300])) + Ellipsis
}

// FormatNumber renders v without a trailing ".0" for whole numbers.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ClockSlot returns the display time of the i-th digest entry: 09:00,
// 09:30, 10:00 and so on.
func ClockSlot(i int) string {
	minute := "00"
	if i%2 == 1 {
		minute = "30"
	}
	return fmt.Sprintf("%02d:%s", 9+i/2, minute)
}
