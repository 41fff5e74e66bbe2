package sources

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/monitor/internal/adapters/tabular"
	"github.com/okian/monitor/internal/domain/classify"
	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/internal/domain/model"
	"github.com/okian/monitor/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGameRankings(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the weekly chart export", t, func() {
		env := newTestEnv(ds)

		Convey("When it loads", func() {
			res, err := load(env, GameRankings)
			So(err, ShouldBeNil)

			Convey("Then one table per known platform comes out in fixed order", func() {
				So(res.Items, ShouldBeEmpty)
				So(res.Rankings, ShouldHaveLength, 4)
				So(res.Rankings[0].Type, ShouldEqual, model.RankingWeChat)
				So(res.Rankings[1].Type, ShouldEqual, model.RankingDouyin)
				So(res.Rankings[2].Type, ShouldEqual, model.RankingAndroid)
				So(res.Rankings[3].Type, ShouldEqual, model.RankingIOS)
			})

			Convey("Then duplicates and unclassifiable rows are dropped", func() {
				wx := res.Rankings[0]
				So(wx.Title, ShouldEqual, "微信小游戏周榜")
				So(wx.Period, ShouldEqual, "周榜")
				So(wx.UpdateTime, ShouldEqual, "2026-01-25 14:00")
				So(wx.Items, ShouldHaveLength, 2)
				So(wx.Items[0].Name, ShouldEqual, "Game A")
				So(wx.Items[1].Name, ShouldEqual, "Game B")
			})

			Convey("Then chart details are carried onto the entries", func() {
				a := res.Rankings[0].Items[0]
				So(*a.Score, ShouldEqual, 98.5)
				So(a.Mechanism, ShouldEqual, "三消；滑动；连击")
				So(a.MicroInnovations, ShouldEqual, "三消；关卡；剧情")
				So(a.Change, ShouldEqual, "新进榜")
				So(*res.Rankings[0].Items[1].Score, ShouldEqual, 87.0)
			})

			Convey("Then an undated row takes today's date and blank cells read as --", func() {
				d := res.Rankings[2].Items[0]
				So(d.UpdateDate, ShouldEqual, "2026-02-10")
				So(d.Change, ShouldEqual, model.NoChange)
				So(res.Rankings[2].UpdateTime, ShouldEqual, "2026-02-10 14:00")
			})
		})

		Convey("When the ranking limit is one", func() {
			res, err := load(newTestEnv(ds, WithRankingLimit(1)), GameRankings)
			So(err, ShouldBeNil)

			Convey("Then each table keeps only its top entry", func() {
				So(res.Rankings[0].Items, ShouldHaveLength, 1)
				So(res.Rankings[0].Items[0].Rank, ShouldEqual, 1)
			})
		})
	})
}

func TestWeChatDouyinRankings(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the casual game index and its exports", t, func() {
		env := newTestEnv(ds)

		Convey("When the mini-game tables load", func() {
			res, err := load(env, WeChatDouyinRankings)
			So(err, ShouldBeNil)

			Convey("Then WeChat and Douyin rows land in their own tables", func() {
				So(res.Rankings, ShouldHaveLength, 2)
				wx, dy := res.Rankings[0], res.Rankings[1]
				So(wx.Title, ShouldEqual, "微信小游戏榜单")
				So(dy.Title, ShouldEqual, "抖音小游戏榜单")
				So(wx.UpdateTime, ShouldEqual, "2026-01-28 12:00")
				So(wx.Items, ShouldHaveLength, 2)
				So(wx.Items[0].ID, ShouldEqual, "wx-0-1-Game A")
				So(wx.Items[1].Name, ShouldEqual, "找茬婆婆")
				So(dy.Items, ShouldHaveLength, 2)
				So(dy.Items[1].Name, ShouldEqual, "Game F")
			})
		})
	})
}

func TestNewGames(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the casual game exports and stored gameplay analyses", t, func() {
		env := newTestEnv(ds)

		Convey("When new game reports load", func() {
			res, err := load(env, NewGames)
			So(err, ShouldBeNil)

			byTitle := map[string]model.MonitorItem{}
			count := map[model.CasualCategory]int{}
			for _, it := range res.Items {
				byTitle[string(it.Category)+"/"+it.Title] = it
				count[it.Category]++
			}

			Convey("Then a new chart entry is a new game and not a new gameplay", func() {
				a, ok := byTitle["新游戏/Game A"]
				So(ok, ShouldBeTrue)
				So(a.ID, ShouldEqual, "reports-新游戏-rankings_2026-01-28-0-Game A")
				So(a.Platform, ShouldEqual, "微信")
				So(a.Date, ShouldEqual, "01-28")
				So(a.Time, ShouldEqual, "12:00")
				So(a.CasualSource, ShouldEqual, model.SourceWeChatDouyin)
				So(a.ReportContent, ShouldContainSubstring, "滑动交换")
				_, inGameplay := byTitle["新玩法/Game A"]
				So(inGameplay, ShouldBeFalse)
			})

			Convey("Then repeated rows are reported once", func() {
				So(count[model.CasualNewGame], ShouldEqual, 3)
				So(count[model.CasualNewGameplay], ShouldEqual, 1)
			})

			Convey("Then a surge is found under its alias", func() {
				p := byTitle["新玩法/找茬婆婆"]
				So(p.ReportContent, ShouldContainSubstring, "找出两张图的不同")
				So(p.ReportContent, ShouldContainSubstring, "婆媳剧情")
			})

			Convey("Then an unreadable analysis is replaced by the failure notice", func() {
				f := byTitle["新游戏/Game F"]
				So(f.ReportContent, ShouldContainSubstring, extract.RecoveryFailed)
			})

			Convey("Then a game without analysis gets a placeholder", func() {
				k := byTitle["新游戏/Game K"]
				So(k.Description, ShouldEqual, "Game K - 快手小游戏")
				So(k.Platform, ShouldEqual, "快手小游戏")
				So(k.ReportContent, ShouldContainSubstring, "暂无玩法说明")
			})
		})

		Convey("When the surge threshold is raised above every change", func() {
			env := newTestEnv(ds, WithClassifier(classify.New(classify.WithSurgeThreshold(50))))
			res, err := load(env, NewGames)
			So(err, ShouldBeNil)

			Convey("Then no gameplay reports are produced", func() {
				for _, it := range res.Items {
					So(it.Category, ShouldEqual, model.CasualNewGame)
				}
			})
		})

		Convey("When the gameplay database is unavailable", func() {
			env := newTestEnv(ds.Without(ResourceVideosDB))
			res, err := load(env, NewGames)

			Convey("Then reports still load with placeholders", func() {
				So(err, ShouldBeNil)
				So(res.Items, ShouldHaveLength, 4)
				for _, it := range res.Items {
					So(it.ReportContent, ShouldContainSubstring, "暂无玩法说明")
				}
			})
		})
	})
}

func TestWeeklyBriefs(t *testing.T) {
	ds := sampleData(t)
	Convey("Given the weekly brief table", t, func() {
		env := newTestEnv(ds, WithDetailLink("https://example.com/monitor"))

		Convey("When briefs load from the database", func() {
			res, err := load(env, WeeklyBriefDB)
			So(err, ShouldBeNil)

			Convey("Then one brief per week is built, newest first", func() {
				So(res.Items, ShouldHaveLength, 2)
				first := res.Items[0]
				So(first.ID, ShouldEqual, "reports-weekly-db-2026-01-19~2026-01-25")
				So(first.Category, ShouldEqual, model.CasualWeeklyBrief)
				So(first.Date, ShouldEqual, "01-19")
				So(first.Description, ShouldContainSubstring, "新进榜 1 款，飙升 1 款")
				So(first.ReportContent, ShouldContainSubstring, "**Game A**（微信小游戏）")
				So(first.ReportContent, ShouldContainSubstring, "排名变化 ↑12")
				So(first.ReportContent, ShouldContainSubstring, "https://example.com/monitor")
				So(first.ReportContent, ShouldNotContainSubstring, "Game E")
			})

			Convey("Then a quiet week says so", func() {
				So(res.Items[1].ReportContent, ShouldContainSubstring, "该周暂无新进榜或排名飙升记录")
			})
		})

		Convey("When briefs load from report files", func() {
			res, err := load(env, WeeklyBriefFiles)
			So(err, ShouldBeNil)

			Convey("Then HTML and missing files are skipped", func() {
				So(res.Items, ShouldHaveLength, 1)
				So(res.Items[0].ID, ShouldEqual, "reports-weekly-2026-01-28")
				So(res.Items[0].Date, ShouldEqual, "01-28")
				So(res.Items[0].Description, ShouldContainSubstring, "新进榜 2 款")
			})
		})
	})
}

func TestFormatGameplay(t *testing.T) {
	Convey("Given a structured analysis", t, func() {
		md, ok := FormatGameplay(fixtures.GameplayObject)

		Convey("Then every section is rendered in order", func() {
			So(ok, ShouldBeTrue)
			So(md, ShouldStartWith, "## 核心玩法\n\n三消\n\n**操作方式**：滑动交换\n**玩法特性**：连击加分")
			So(md, ShouldNotContainSubstring, "**规则**")
			So(md, ShouldContainSubstring, "## 基线与创新点\n\n经典三消\n\n加入剧情")
			So(md, ShouldContainSubstring, "**目标用户**：女性玩家")
			So(md, ShouldContainSubstring, "**留存因素**：每日关卡")
		})
	})

	Convey("Given a fenced analysis with a plain core", t, func() {
		md, ok := FormatGameplay(fixtures.GameplayString)

		Convey("Then the baseline and innovation points are listed", func() {
			So(ok, ShouldBeTrue)
			So(md, ShouldContainSubstring, "## 基线品类\n\n找茬")
			So(md, ShouldContainSubstring, "## 创新点\n\n- 婆媳剧情")
			So(md, ShouldNotContainSubstring, "- \n")
		})
	})

	Convey("Given a truncated analysis", t, func() {
		md, ok := FormatGameplay(fixtures.GameplayBroken)

		Convey("Then the readable fields are recovered", func() {
			So(ok, ShouldBeTrue)
			So(md, ShouldEqual, "## 核心玩法\n\n横向消除\n\n**规则**：清空整行")
		})
	})

	Convey("Given an analysis with nothing to recover", t, func() {
		_, ok := FormatGameplay(`{"core_gameplay":`)
		So(ok, ShouldBeFalse)
		_, ok = FormatGameplay("  ")
		So(ok, ShouldBeFalse)
	})
}

func TestGameItemIDs(t *testing.T) {
	ds := sampleData(t)
	Convey("Given a chart row whose game name contains a slash", t, func() {
		env := newTestEnv(ds)
		csv := rankingCSV{
			name: "rankings_2026-01-28.csv",
			id:   "rankings_2026-01-28",
			records: []tabular.Record{{
				colName:        "Cut/Paste",
				colChange:      "新进榜",
				colPlatform:    "微信小游戏",
				colMonitorDate: "2026-01-28",
			}},
		}

		Convey("When its report item is built", func() {
			items := env.gameItems(context.Background(), &gameplayLookup{env: env}, csv, model.CasualNewGame)

			Convey("Then the ID stays a single path segment", func() {
				So(items, ShouldHaveLength, 1)
				So(items[0].Title, ShouldEqual, "Cut/Paste")
				So(items[0].ID, ShouldEqual, "reports-新游戏-rankings_2026-01-28-0-Cut_Paste")
				So(strings.Contains(items[0].ID, "/"), ShouldBeFalse)
			})
		})
	})
}
