package extract_test

import (
	"strings"
	"testing"

	"github.com/okian/monitor/internal/domain/extract"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTextHelpers(t *testing.T) {
	Convey("Given free text", t, func() {
		So(extract.Truncate("你好世界", 2), ShouldEqual, "你好...")
		So(extract.Truncate("short", 10), ShouldEqual, "short")
		So(extract.Flatten("a\n\nb\nc  "), ShouldEqual, "a b c")
		So(extract.ShortDate("2026-01-28"), ShouldEqual, "01-28")
		So(extract.ShortDate("本周"), ShouldEqual, "本周")
	})

	Convey("Given a markdown document with sections", t, func() {
		md := "# Title\n## Alpha\nfirst body\n## Beta\nsecond body"

		So(extract.Section(md, "Alpha"), ShouldEqual, "first body")
		So(extract.Section(md, "Beta"), ShouldEqual, "second body")
		So(extract.Section(md, "Gamma"), ShouldBeEmpty)
	})

	Convey("Given a gameplay write-up", t, func() {
		Convey("When it has a core gameplay section", func() {
			md := "# 消消乐\n\n## 核心玩法\n\n**滑动** 三消\n\n## 基线与创新点\n\n基线"
			So(extract.GameplaySummary(md), ShouldEqual, "滑动 三消")
		})

		Convey("When it has no such section", func() {
			md := "### Notes\n\n" + strings.Repeat("玩", 250)
			s := extract.GameplaySummary(md)
			So(strings.HasPrefix(s, "Notes 玩"), ShouldBeTrue)
			So(strings.HasSuffix(s, extract.Ellipsis), ShouldBeTrue)
		})
	})
}

func TestRecoverFields(t *testing.T) {
	Convey("Given malformed structured gameplay text", t, func() {
		text := "```json\n{\"mechanism\":\"swipe to match\", \"rules\": broken"

		Convey("When recovering fields", func() {
			f := extract.RecoverFields(text)

			Convey("Then the well-formed pairs are kept", func() {
				So(f.Mechanism, ShouldEqual, "swipe to match")
				So(f.Rules, ShouldBeEmpty)
				So(f.Empty(), ShouldBeFalse)
			})

			Convey("Then the source still looks unrecovered", func() {
				So(extract.LooksUnrecovered(text), ShouldBeTrue)
			})
		})
	})

	Convey("Given baseline fields spread across the text", t, func() {
		f := extract.RecoverFields(`"baseline": "三消", "innovation": "加入 \"合成\"", "operation": "点击"`)

		So(f.Baseline, ShouldEqual, "三消\n\n加入 \"合成\"")
		So(f.Operation, ShouldEqual, "点击")
	})

	Convey("Given plain prose", t, func() {
		So(extract.RecoverFields("no fields here").Empty(), ShouldBeTrue)
		So(extract.LooksUnrecovered("no fields here"), ShouldBeFalse)
		So(extract.LooksUnrecovered(`{"core_gameplay": {}}`), ShouldBeTrue)
	})
}

func TestLabelProbes(t *testing.T) {
	Convey("Given labelled report text", t, func() {
		md := "# 报告\n**日期**: 2026-02-03\n**监控日期**：2026-01-28\n**素材来源**: Meta\n数据周期：2026-01-20（单日数据）\n**可用性评分**: 4.5 ⭐"

		So(extract.ReportDate(md), ShouldEqual, "2026-02-03")
		So(extract.MonitorDate(md), ShouldEqual, "2026-01-28")
		So(extract.MaterialSource(md, "广大大"), ShouldEqual, "Meta")
		So(extract.DataPeriod(md), ShouldEqual, "2026-01-20")
		So(extract.FirstHeading(md), ShouldEqual, "报告")

		score, ok := extract.UsabilityScore(md)
		So(ok, ShouldBeTrue)
		So(score, ShouldEqual, 4.5)
	})

	Convey("Given text without labels", t, func() {
		So(extract.ReportDate("nothing"), ShouldBeEmpty)
		So(extract.MaterialSource("nothing", "广大大"), ShouldEqual, "广大大")
		So(extract.DataPeriod("generated 2026-01-19 late"), ShouldEqual, "2026-01-19")
		So(extract.DataPeriod(""), ShouldBeEmpty)

		_, ok := extract.UsabilityScore("nothing")
		So(ok, ShouldBeFalse)
	})
}

func TestParseHotReport(t *testing.T) {
	Convey("Given a trending-topic report", t, func() {
		md := "1. 某热点事件\n🟣 8.5\n🔥 热度\n1234\n摘要：这是摘要内容\n\n性质：社会\nUA灵感：做一个素材\n\n生成适配建议"

		Convey("When parsing", func() {
			r := extract.ParseHotReport(md)

			Convey("Then every labelled field is captured", func() {
				So(r.Title, ShouldEqual, "某热点事件")
				So(*r.Score, ShouldEqual, 8.5)
				So(r.Heat, ShouldEqual, 1234)
				So(r.Summary, ShouldEqual, "这是摘要内容")
				So(r.Type, ShouldEqual, "社会")
				So(r.UAInspiration, ShouldEqual, "做一个素材")
			})

			Convey("Then the body renders the labels", func() {
				body := r.Body()
				So(body, ShouldContainSubstring, "**性质**：社会")
				So(body, ShouldContainSubstring, "**评分**：8.5")
				So(body, ShouldContainSubstring, "**热度**：1234")
				So(body, ShouldContainSubstring, "## UA灵感\n\n做一个素材")
			})
		})
	})

	Convey("Given an empty report", t, func() {
		r := extract.ParseHotReport("")

		So(r.Title, ShouldEqual, "热点日报")
		So(r.Score, ShouldBeNil)
		So(r.Body(), ShouldContainSubstring, "**热度**：0")
	})
}

func TestParseAIDaily(t *testing.T) {
	Convey("Given an AI daily digest", t, func() {
		md := "# AI 日报 2026-01-28\n📌【概览】\n今日概览\n" +
			"🔷【模型发布】\n⭐ 得分：9.2\n\U0001F3F7️ 标签：模型、开源,发布\n🧠 观点：值得关注\n📝 摘要：新模型发布\n🔗 原文链接：点击打开\n" +
			"🔷【第二条】\n🧠 观点：只有观点\n🔗 原文链接：https://example.com/a\n"

		Convey("When parsing", func() {
			d := extract.ParseAIDaily(md)

			Convey("Then the date and overview are captured", func() {
				So(d.Date, ShouldEqual, "2026-01-28")
				So(d.Overview, ShouldEqual, "今日概览")
				So(len(d.Entries), ShouldEqual, 2)
			})

			Convey("Then the first entry carries all its labels", func() {
				e := d.Entries[0]
				So(e.Title, ShouldEqual, "模型发布")
				So(*e.Score, ShouldEqual, 9.2)
				So(e.Tags, ShouldResemble, []string{"模型", "开源", "发布"})
				So(e.Viewpoint, ShouldEqual, "值得关注")
				So(strings.HasPrefix(e.Summary, "新模型发布"), ShouldBeTrue)
				So(e.Link, ShouldEqual, "#")
				So(e.Body(), ShouldContainSubstring, "**标签**：模型、开源、发布")
			})

			Convey("Then a missing summary falls back to the viewpoint", func() {
				e := d.Entries[1]
				So(e.Score, ShouldBeNil)
				So(strings.HasPrefix(e.Summary, "只有观点"), ShouldBeTrue)
				So(e.Link, ShouldEqual, "https://example.com/a")
			})
		})
	})
}

func TestParseUADaily(t *testing.T) {
	Convey("Given a UA creative daily report", t, func() {
		md := "# UA 素材日报 - 竞品\n**日期**: 2026-02-03\n**素材来源**: Meta\n\n## UA 素材日报概览\n\n今日概览文本\n\n### 详情\n细节"

		r := extract.ParseUADaily(md)

		So(r.Date, ShouldEqual, "2026-02-03")
		So(r.Source, ShouldEqual, "Meta")
		So(r.Title, ShouldEqual, "UA 素材日报 - 竞品")
		So(r.Overview, ShouldEqual, "今日概览文本")
	})

	Convey("Given an AI product UA report", t, func() {
		md := "**日期**: 2026-02-04\n### 一、各分类 AI 产品 UA 素材概览\n分类概览\n### 二、详情\n细节"

		r := extract.ParseAIProductUADaily(md)

		So(r.Title, ShouldEqual, "AI 产品 UA 素材日报")
		So(r.Source, ShouldEqual, "广大大")
		So(r.Overview, ShouldEqual, "分类概览")
	})

	Convey("Given overviews of different lengths", t, func() {
		So(extract.OverviewSummary("a\nb"), ShouldEqual, "a b")
		long := extract.OverviewSummary(strings.Repeat("字", 301))
		So(long, ShouldEqual, strings.Repeat("字", 300)+extract.Ellipsis)
	})
}

func TestFormatting(t *testing.T) {
	Convey("Given numbers and slots", t, func() {
		So(extract.FormatNumber(8), ShouldEqual, "8")
		So(extract.FormatNumber(8.25), ShouldEqual, "8.25")
		So(extract.ClockSlot(0), ShouldEqual, "09:00")
		So(extract.ClockSlot(1), ShouldEqual, "09:30")
		So(extract.ClockSlot(2), ShouldEqual, "10:00")
	})
}
