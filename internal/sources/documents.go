package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/monitor/internal/adapters/jsondoc"
	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/pkg/metrics"
)

func loadReportDocuments(ctx context.Context, env *Env) (Result, error) {
	data, err := env.fetcher.Fetch(ctx, ResourceReportDocuments)
	if err != nil {
		return Result{}, err
	}
	raw, err := jsondoc.DecodeStrict[[]json.RawMessage](data)
	if err != nil {
		metrics.RecordParseFailure("json")
		return Result{}, fmt.Errorf("%s: %w: %w", ResourceReportDocuments, ErrMalformed, err)
	}
	docs := make([]model.ReportDocument, 0, len(raw))
	for _, r := range raw {
		if doc, ok := canonicalDocument(r); ok {
			docs = append(docs, doc)
		}
	}
	items := make([]model.MonitorItem, len(docs))
	for i, doc := range docs {
		items[i] = documentItem(i, doc)
	}
	return Result{Items: items}, nil
}

// canonicalDocument accepts objects that carry a title and a string content.
func canonicalDocument(raw json.RawMessage) (model.ReportDocument, bool) {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return model.ReportDocument{}, false
	}
	if _, ok := fields["title"]; !ok {
		return model.ReportDocument{}, false
	}
	var content string
	if json.Unmarshal(fields["content"], &content) != nil {
		return model.ReportDocument{}, false
	}
	var doc model.ReportDocument
	if json.Unmarshal(raw, &doc) != nil {
		return model.ReportDocument{}, false
	}
	return doc, true
}

func documentItem(i int, doc model.ReportDocument) model.MonitorItem {
	date := doc.Date
	if date == "" {
		date = "01-01"
	} else if strings.Count(date, "-") >= 2 {
		parts := strings.Split(date, "-")
		date = parts[1] + "-" + parts[2]
	}
	it := model.ItemFromDocument(fmt.Sprintf("report-doc-%d-%s", i, strings.ReplaceAll(doc.Date, "-", "")), model.MonitorAIHot, doc)
	it.Source = or(doc.Source, "AI日报")
	it.Platform = classify.DocumentPlatform(doc.Source)
	it.Date = date
	it.Time = or(doc.Time, "00:00")
	it.Description = or(doc.Summary, doc.Title)
	it.Sentiment = ""
	return it
}
