package model

import (
	"encoding/json"
)

// ReportDocument is the canonical unit for narrative content.
// Content is always populated.
type ReportDocument struct {
	Title      string         `json:"title"`
	Tags       []string       `json:"tags,omitempty"`
	Date       string         `json:"date,omitempty"`
	Time       string         `json:"time,omitempty"`
	Source     string         `json:"source,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Content    string         `json:"content"`
	Score      *float64       `json:"score,omitempty"`
	CoverImage string         `json:"coverImage,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Encode serializes the document for embedding in a Monitor Item.
func (d ReportDocument) Encode() string {
	if d.Content == "" {
		d.Content = NoContent
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Meta values that cannot be marshalled are dropped.
		d.Meta = nil
		b, _ = json.Marshal(d)
	}
	return string(b)
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// MonitorItem is the flattened, filterable projection of a Report Document.
type MonitorItem struct {
	ID            string         `json:"id"`
	Type          MonitorType    `json:"type"`
	Title         string         `json:"title"`
	Source        string         `json:"source"`
	Platform      string         `json:"platform"`
	CompanyName   string         `json:"companyName,omitempty"`
	Category      CasualCategory `json:"casualGameCategory,omitempty"`
	CasualSource  CasualSource   `json:"casualGameSource,omitempty"`
	CompetitorSub CompetitorSub  `json:"casualGameCompetitorSub,omitempty"`
	AIProductSub  AIProductSub   `json:"aiProductSub,omitempty"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Views         int64          `json:"views"`
	Engagement    int64          `json:"engagement"`
	Description   string         `json:"description"`
	Tags          []string       `json:"tags"`
	CoverImage    string         `json:"coverImage,omitempty"`
	Language      string         `json:"language"`
	Trend         string         `json:"trend,omitempty"`
	Sentiment     string         `json:"sentiment,omitempty"`
	URL           string         `json:"url,omitempty"`
	Score         *float64       `json:"score,omitempty"`
	ReportContent string         `json:"reportContent,omitempty"`
}

// ItemFromDocument projects doc into a Monitor Item of type t and embeds it.
// Routing fields and counters are left for the caller.
func ItemFromDocument(id string, t MonitorType, doc ReportDocument) MonitorItem {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return MonitorItem{
		ID:            id,
		Type:          t,
		Title:         doc.Title,
		Source:        doc.Source,
		Date:          doc.Date,
		Time:          doc.Time,
		Description:   doc.Summary,
		Tags:          tags,
		CoverImage:    doc.CoverImage,
		Language:      "中文",
		Sentiment:     "neutral",
		Score:         doc.Score,
		ReportContent: doc.Encode(),
	}
}
