// Package normalize turns any stored report payload into one canonical
// model.ReportDocument. Payloads are decoded into a closed set of variants
// first, then converted by an exhaustive switch in Normalize.
package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/okian/monitor/internal/domain/model"
)

// Variant discriminators carried in the "kind" field of legacy payloads.
const (
	KindDailyHot        = "daily_hot"
	KindDailyAI         = "daily_ai"
	KindDailyAIOverview = "daily_ai_overview"
	KindWeeklyReport    = "weekly_report"
	KindGameRanking     = "game_ranking"
)

// Payload is one of Empty, Text, Canonical, DailyHot, DailyAI,
// DailyAIOverview, WeeklyReport or GameRanking.
type Payload interface {
	payload()
}

// Empty is a blank payload.
type Empty struct{}

// Text is a payload treated as an opaque body.
type Text struct {
	Raw string
}

// Canonical is an already rendered document. Absent fields are nil.
type Canonical struct {
	Title      *string         `json:"title"`
	Tags       []string        `json:"tags"`
	Date       *string         `json:"date"`
	Time       *string         `json:"time"`
	Source     *string         `json:"source"`
	Summary    *string         `json:"summary"`
	Content    string          `json:"content"`
	Score      *float64        `json:"score"`
	CoverImage *string         `json:"coverImage"`
	RawMeta    json.RawMessage `json:"meta"`
}

// DailyHot is a trending-topic report.
type DailyHot struct {
	Title         *string  `json:"title"`
	Type          string   `json:"type"`
	Score         *float64 `json:"score"`
	Heat          *float64 `json:"heat"`
	Summary       *string  `json:"summary"`
	UAInspiration string   `json:"uaInspiration"`
	CoverImage    *string  `json:"coverImage"`
}

// DailyAI is one AI digest entry.
type DailyAI struct {
	Title     *string  `json:"title"`
	Score     *float64 `json:"score"`
	Tags      []string `json:"tags"`
	Viewpoint string   `json:"viewpoint"`
	Summary   *string  `json:"summary"`
}

// DailyAIOverview is an AI digest overview kept as raw text.
type DailyAIOverview struct {
	Raw string
}

// Period is a monitored date range.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      *int   `json:"days"`
}

// TextBlock wraps a rendered text fragment.
type TextBlock struct {
	Content string `json:"content"`
}

// CardField is a text field inside a card element.
type CardField struct {
	Text *TextBlock `json:"text"`
}

// CardElement is one element of a message card.
type CardElement struct {
	Tag    string      `json:"tag"`
	Text   *TextBlock  `json:"text"`
	Fields []CardField `json:"fields"`
}

// CardHeader is the titled header of a card.
type CardHeader struct {
	Title *TextBlock `json:"title"`
}

// Card is a message card with an optional titled header.
type Card struct {
	Header   *CardHeader   `json:"header"`
	Elements []CardElement `json:"elements"`
}

// HeaderTitle returns the card header text or "".
func (c *Card) HeaderTitle() string {
	if c == nil || c.Header == nil || c.Header.Title == nil {
		return ""
	}
	return c.Header.Title.Content
}

// WeeklyReport is a competitor weekly report card.
type WeeklyReport struct {
	Company string  `json:"company"`
	Period  *Period `json:"period"`
	Card    *Card   `json:"card"`

	// period and card exactly as stored, for the document meta.
	rawPeriod any
	rawCard   any
}

// GameRanking is a ranking table stored as a document.
type GameRanking struct {
	Type       string               `json:"type"`
	Title      *string              `json:"title"`
	Period     string               `json:"period"`
	UpdateTime string               `json:"updateTime"`
	Items      []model.RankingEntry `json:"items"`
}

func (Empty) payload()           {}
func (Text) payload()            {}
func (Canonical) payload()       {}
func (DailyHot) payload()        {}
func (DailyAI) payload()         {}
func (DailyAIOverview) payload() {}
func (WeeklyReport) payload()    {}
func (GameRanking) payload()     {}

// Decode classifies raw. It never fails: anything that cannot be decoded
// into a known variant is returned as Text.
func Decode(raw string) Payload {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty{}
	}
	if !strings.HasPrefix(trimmed, "{") {
		return Text{Raw: trimmed}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return Text{Raw: trimmed}
	}
	text := Text{Raw: trimmed}

	if c, ok := fields["content"]; ok && isString(c) {
		var p Canonical
		if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
			return text
		}
		return p
	}

	var kind string
	if k, ok := fields["kind"]; ok {
		_ = json.Unmarshal(k, &kind)
	}
	switch kind {
	case KindDailyHot:
		return decodeAs[DailyHot](trimmed, text)
	case KindDailyAI:
		return decodeAs[DailyAI](trimmed, text)
	case KindDailyAIOverview:
		return DailyAIOverview{Raw: trimmed}
	case KindGameRanking:
		return decodeAs[GameRanking](trimmed, text)
	}

	if !present(fields["card"]) && !present(fields["period"]) {
		return text
	}
	var w WeeklyReport
	if err := json.Unmarshal([]byte(trimmed), &w); err != nil {
		return text
	}
	_ = json.Unmarshal(fields["period"], &w.rawPeriod)
	_ = json.Unmarshal(fields["card"], &w.rawCard)
	return w
}

func decodeAs[T Payload](raw string, fallback Payload) Payload {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback
	}
	return v
}

func isString(m json.RawMessage) bool {
	m = bytes.TrimSpace(m)
	return len(m) > 0 && m[0] == '"'
}

func present(m json.RawMessage) bool {
	m = bytes.TrimSpace(m)
	return len(m) > 0 && !bytes.Equal(m, []byte("null"))
}
