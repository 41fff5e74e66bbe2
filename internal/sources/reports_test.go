package sources

import (
	"errors"
	"testing"

	"github.com/okian/monitor/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAIProductSources(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the AI product resources", t, func() {
		env := newTestEnv(ds)

		Convey("When the sales export loads", func() {
			res, err := load(env, AISalesRanking)
			So(err, ShouldBeNil)

			Convey("Then products are summed across rows and ordered by revenue", func() {
				So(res.Rankings, ShouldHaveLength, 1)
				table := res.Rankings[0]
				So(table.Type, ShouldEqual, model.RankingCompetitor)
				So(table.UpdateTime, ShouldEqual, "2026-01-26 14:00")
				So(table.Items, ShouldHaveLength, 2)
				So(table.Items[0].Name, ShouldEqual, "Alpha")
				So(table.Items[0].Rank, ShouldEqual, 1)
				So(table.Items[0].Downloads, ShouldEqual, "2.0K")
				So(table.Items[0].Revenue, ShouldEqual, "$1.00万")
				So(table.Items[1].Name, ShouldEqual, "Gamma")
				So(table.Items[1].Downloads, ShouldEqual, "500")
			})
		})

		Convey("When the sales report loads", func() {
			res, err := load(env, AICompetitorReport)
			So(err, ShouldBeNil)

			Convey("Then it is dated by its data period", func() {
				So(res.Items, ShouldHaveLength, 1)
				it := res.Items[0]
				So(it.ID, ShouldEqual, "ai-competitor-report-md")
				So(it.AIProductSub, ShouldEqual, model.AIProductCompetitor)
				So(it.Date, ShouldEqual, "01-26")
				So(it.Time, ShouldEqual, "14:00")
			})
		})

		Convey("When the UA creative report loads", func() {
			res, err := load(env, AIProductUADaily)
			So(err, ShouldBeNil)

			Convey("Then its overview becomes the summary", func() {
				it := res.Items[0]
				So(it.ID, ShouldEqual, "ai-product-ua-daily-20260204")
				So(it.Date, ShouldEqual, "02-04")
				So(it.Platform, ShouldEqual, "广大大")
				So(it.Description, ShouldEqual, "聊天类产品本周素材投放增长明显。")
			})
		})

		Convey("When a report is blank", func() {
			res, err := load(newTestEnv(ds.With(ResourceAICompetitorMD, []byte("  \n"))), AICompetitorReport)

			Convey("Then the source is empty but healthy", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestDailyReports(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the daily report files", t, func() {
		env := newTestEnv(ds)

		Convey("When the trending-topic report loads", func() {
			res, err := load(env, HotTrend)
			So(err, ShouldBeNil)

			Convey("Then heat drives the counters", func() {
				it := res.Items[0]
				So(it.Title, ShouldEqual, "热点日报：春节档电影预售破纪录")
				So(it.Type, ShouldEqual, model.MonitorHotTrend)
				So(*it.Score, ShouldEqual, 8.1)
				So(it.Views, ShouldEqual, int64(500000))
				So(it.Engagement, ShouldEqual, int64(50000))
				So(it.Tags, ShouldResemble, []string{"社会热点", "热点", "UA灵感"})
				So(it.Date, ShouldEqual, "02-10")
				So(it.Description, ShouldEqual, "春节档预售总额创新高。")
				So(it.CoverImage, ShouldEqual, HotTrendCover)
			})
		})

		Convey("When the AI digest loads", func() {
			res, err := load(env, AIDaily)
			So(err, ShouldBeNil)

			Convey("Then the overview comes first, then one item per entry", func() {
				So(res.Items, ShouldHaveLength, 3)
				So(res.Items[0].ID, ShouldEqual, "ai-daily-overview")
				So(res.Items[0].Date, ShouldEqual, "01-30")
				So(res.Items[0].Description, ShouldEqual, "今日 AI 话题集中在智能体。")

				first, second := res.Items[1], res.Items[2]
				So(first.Title, ShouldEqual, "智能体爆发")
				So(first.Time, ShouldEqual, "09:00")
				So(first.Tags, ShouldHaveLength, 5)
				So(first.URL, ShouldEqual, "https://example.com/a")
				So(second.Time, ShouldEqual, "09:30")
				So(second.Tags, ShouldResemble, []string{"AI", "小红书"})
				So(second.URL, ShouldEqual, "#")
				So(second.Description, ShouldStartWith, "推理成本持续下降")
			})
		})

		Convey("When the UA creative report loads", func() {
			res, err := load(env, UADaily)
			So(err, ShouldBeNil)

			Convey("Then it is routed to the competitor UA channel", func() {
				it := res.Items[0]
				So(it.ID, ShouldEqual, "ua-daily-20260203")
				So(it.Title, ShouldEqual, "UA 素材日报 - 2026-02-03")
				So(it.Category, ShouldEqual, model.CasualCompetitor)
				So(it.CompetitorSub, ShouldEqual, model.CompetitorUA)
				So(it.Description, ShouldEqual, "各公司本日新增素材以剧情向为主。")
			})
		})
	})
}

func TestCompetitorWeekly(t *testing.T) {
	ds := sampleData(t)
	Convey("Given stored competitor weekly reports", t, func() {
		env := newTestEnv(ds)

		Convey("When they load", func() {
			res, err := load(env, CompetitorWeekly)
			So(err, ShouldBeNil)
			So(res.Items, ShouldHaveLength, 2)

			Convey("Then a readable card yields its average usability", func() {
				a := res.Items[0]
				So(a.ID, ShouldEqual, "weekly-report-1")
				So(a.Title, ShouldEqual, "📊 CompA 周报 (01-19 ~ 01-25)")
				So(a.Time, ShouldEqual, "10:30")
				So(*a.Score, ShouldAlmostEqual, 4.2, 0.0001)
				So(a.Tags, ShouldResemble, []string{"竞品监控", "玩法更新"})
				So(a.Description, ShouldContainSubstring, "监控了 2 个平台")
			})

			Convey("Then an unreadable body falls back to the row", func() {
				b := res.Items[1]
				So(b.Score, ShouldBeNil)
				So(b.Time, ShouldEqual, "00:00")
				So(b.Tags, ShouldResemble, []string{"竞品监控", "线下活动"})
				So(b.Description, ShouldStartWith, "CompB 在 2026-01-12 至 2026-01-18")
			})
		})
	})
}

func TestReportDocuments(t *testing.T) {
	ds := sampleData(t)
	Convey("Given a report document list", t, func() {
		Convey("When it loads", func() {
			res, err := load(newTestEnv(ds), ReportDocuments)
			So(err, ShouldBeNil)

			Convey("Then only canonical documents become items", func() {
				So(res.Items, ShouldHaveLength, 2)
				one, two := res.Items[0], res.Items[1]
				So(one.ID, ShouldEqual, "report-doc-0-20260129")
				So(one.Date, ShouldEqual, "01-29")
				So(one.Platform, ShouldEqual, "微信公众号")
				So(one.Description, ShouldEqual, "摘要一")
				So(two.Date, ShouldEqual, "01-01")
				So(two.Time, ShouldEqual, "00:00")
				So(two.Platform, ShouldEqual, "小红书")
				So(two.Description, ShouldEqual, "Doc Two")
			})
		})

		Convey("When the payload is not a list", func() {
			_, err := load(newTestEnv(ds.With(ResourceReportDocuments, []byte(`{"a":1}`))), ReportDocuments)

			Convey("Then the source reports a malformed resource", func() {
				So(errors.Is(err, ErrMalformed), ShouldBeTrue)
			})
		})
	})
}
