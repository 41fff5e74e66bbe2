package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/monitor/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRankingTable(t *testing.T) {
	Convey("Given entries without change descriptors", t, func() {
		items := []model.RankingEntry{{Rank: 1, Name: "A"}, {Rank: 2, Name: "B", Change: "↑3"}}

		Convey("When building a table", func() {
			table := model.NewRankingTable(model.RankingWeChat, "微信小游戏周榜", "2025-01-06 14:00", "周榜", items)

			Convey("Then every entry carries a change descriptor", func() {
				So(table.Items[0].Change, ShouldEqual, model.NoChange)
				So(table.Items[1].Change, ShouldEqual, "↑3")
				So(items[0].Change, ShouldEqual, "")
			})

			Convey("Then change is serialized even when it is the sentinel", func() {
				b, err := json.Marshal(table.Items[0])
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"change":"--"`)
				So(string(b), ShouldNotContainSubstring, `"score"`)
			})
		})
	})
}

func TestItemFromDocument(t *testing.T) {
	Convey("Given a report document without content", t, func() {
		doc := model.ReportDocument{Title: "热点日报：X", Summary: "s", Score: model.Float(8.1)}

		Convey("When projecting it into an item", func() {
			item := model.ItemFromDocument("hot-1", model.MonitorHotTrend, doc)

			Convey("Then the list fields mirror the document", func() {
				So(item.Title, ShouldEqual, doc.Title)
				So(item.Description, ShouldEqual, "s")
				So(*item.Score, ShouldEqual, 8.1)
				So(item.Tags, ShouldNotBeNil)
			})

			Convey("Then the embedded document has a content placeholder", func() {
				var back model.ReportDocument
				So(json.Unmarshal([]byte(item.ReportContent), &back), ShouldBeNil)
				So(back.Content, ShouldEqual, model.NoContent)
			})
		})

		Convey("When meta cannot be marshalled", func() {
			doc.Content = "body"
			doc.Meta = map[string]any{"bad": func() {}}

			Convey("Then the document still encodes without meta", func() {
				var back model.ReportDocument
				So(json.Unmarshal([]byte(doc.Encode()), &back), ShouldBeNil)
				So(back.Content, ShouldEqual, "body")
				So(back.Meta, ShouldBeNil)
			})
		})
	})
}
