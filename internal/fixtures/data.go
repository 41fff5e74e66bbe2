package fixtures

import (
	"fmt"
	"strings"
)

// GameRankingsCSV is the weekly chart export. It carries a duplicate WeChat
// row plus rows with an unknown platform, a zero rank and a blank name.
const GameRankingsCSV = `周区间,平台,来源,榜单,地区,排名,游戏名称,游戏类型,标签,热度指数,监控日期,发布时间,开发公司,排名变化,核心玩法_mechanism,核心玩法_operation,核心玩法_rules,核心玩法_features,基线_base_genre,基线_baseline_loop,基线_micro_innovations
2026-01-19~2026-01-25,wx,微信,畅玩榜,CN,1,Game A,休闲,三消,98.5万,2026-01-25,2026-01-20,Studio A,新进榜,三消,滑动,,连击,三消,关卡,剧情
2026-01-19~2026-01-25,wx,微信,畅玩榜,CN,2,Game B,益智,,87,2026-01-25,,Studio B,↑3,,,,,,,
2026-01-19~2026-01-25,wx,微信,畅玩榜,CN,1,Game A,休闲,三消,98.5万,2026-01-25,2026-01-20,Studio A,新进榜,三消,滑动,,连击,三消,关卡,剧情
2026-01-19~2026-01-25,dy,抖音,热门榜,CN,1,Game C,消除,,,2026-01-25,,Studio C,↑12,,,,,,,
2026-01-19~2026-01-25,android,Google Play,免费榜,US,1,Game D,动作,,,--,,Studio D,,,,,,,,
2026-01-19~2026-01-25,ios,App Store,免费榜,US,1,Game E,策略,,,2026-01-25,,Studio E,↓2,,,,,,,
2026-01-19~2026-01-25,kuaishou,快手,热门榜,CN,1,Game X,休闲,,,2026-01-25,,,,,,,,,,
2026-01-19~2026-01-25,wx,微信,畅玩榜,CN,0,Game Y,休闲,,,2026-01-25,,,,,,,,,,
2026-01-19~2026-01-25,wx,微信,畅玩榜,CN,3,,休闲,,,2026-01-25,,,,,,,,,,
`

// CasualIndex lists the mini-game exports and weekly brief reports.
const CasualIndex = `{"rankings":["rankings_2026-01-28.csv","missing.csv"],"reports":["2026-01-28.md","broken.md","missing.md"]}`

// MiniGameRankingsCSV is one mini-game ranking export.
const MiniGameRankingsCSV = `平台,排名,游戏名称,游戏类型,来源,榜单,监控日期,发布时间,开发公司,排名变化,地区
微信小游戏,1,Game A,休闲,引力引擎,畅玩榜,2026-01-28,2026-01-20,Studio A,新进榜,CN
微信小游戏,5,找茬婆婆,益智,引力引擎,畅玩榜,2026-01-28,,Studio P,12,CN
微信小游戏,1,Game A,休闲,引力引擎,畅玩榜,2026-01-28,2026-01-20,Studio A,新进榜,CN
抖音小游戏,2,Game C,消除,巨量引擎,热门榜,2026-01-28,,Studio C,3,CN
抖音小游戏,8,Game F,跑酷,巨量引擎,热门榜,2026-01-28,,Studio F,新进榜,CN
快手小游戏,1,Game K,休闲,,热门榜,2026-01-28,,,新进榜,CN
`

// WeeklyBriefMD is a weekly brief report file.
const WeeklyBriefMD = `# 休闲游戏周报

**监控日期**：2026-01-28

## 概览

本周微信小游戏新进榜 2 款，抖音小游戏飙升 1 款。

## 详情

- Game A
`

// AICompetitorMD is the AI product sales report.
const AICompetitorMD = `# 竞品动态报告

数据周期：2026-01-26（单日数据）

## 产品总览

| 产品 | 下载量 | 收入 |
| --- | --- | --- |
| Alpha | 2000 | 10000 |
`

// AISalesCSV is the AI product sales export. Alpha appears twice and Beta
// has neither downloads nor revenue.
const AISalesCSV = `product_name,category,app_id,country,date,android_units,android_revenue
Alpha,Chat,com.alpha,US,2026-01-25,"1,200","6,000"
Alpha,Chat,com.alpha,JP,2026-01-26,800,"4,000"
Beta,Photo,com.beta,US,2026-01-26,0,0
Gamma,Video,com.gamma,US,2026-01-24,500,"9,000"
`

// AIProductUAMD is the AI product UA creative daily report.
const AIProductUAMD = `# AI 产品 UA 素材日报

**日期**：2026-02-04
**素材来源**：广大大

### 一、各分类 AI 产品 UA 素材概览

聊天类产品本周素材投放增长明显。

### 二、明细

- Alpha
`

// HotTrendMD is the trending-topic daily report.
const HotTrendMD = `1. 春节档电影预售破纪录
🟣 8.1
🔥 热度
500
摘要：春节档预售总额创新高。

性质：社会热点
UA灵感：以团圆为主题制作素材

生成适配素材
`

// AIDailyMD is the AI daily digest.
const AIDailyMD = `# 小红书 AI 日报 2026-01-30

📌【概览】
今日 AI 话题集中在智能体。

🔷【智能体爆发】
⭐ 得分：8.5
🏷️ 标签：AI、Agent、智能体、工具、效率、办公
🧠 观点：智能体正在进入日常办公
📝 摘要：多款智能体产品发布
🔗 原文链接：https://example.com/a

🔷【模型降价】
🧠 观点：推理成本持续下降
🔗 原文链接：点击打开
`

// UADailyMD is the UA creative daily report.
const UADailyMD = `# UA 素材日报

**日期**: 2026-02-03
**素材来源**: 广大大

## UA 素材日报概览

各公司本日新增素材以剧情向为主。

### 一、详情

- Studio A
`

// ReportDocumentsJSON holds canonical report documents plus two entries
// that are not documents.
const ReportDocumentsJSON = `[
  {"title":"Doc One","content":"正文一","date":"2026-01-29","source":"wechat","tags":["AI"],"summary":"摘要一"},
  {"title":"no content"},
  {"content":"no title"},
  {"title":"Doc Two","content":"正文二","source":"xhs"}
]`

// Gameplay write-ups stored in videos.db.
const (
	GameplayObject = `{"core_gameplay":{"mechanism":"三消","operation":"滑动交换","rules":"","features":"连击加分"},"baseline_and_innovation":{"summary":"经典三消","extra":"加入剧情"},"attraction":{"points":"轻松解压","target_audience":"女性玩家","retention_factors":"每日关卡"}}`
	GameplayString = "```json\n{\"core_gameplay\":\"找出两张图的不同\",\"baseline_game\":\"找茬\",\"innovation_points\":[\"婆媳剧情\",\" \"]}\n```"
	GameplayBroken = `{"mechanism": "横向消除", "rules": "清空整行"`
)

func videosRows() []string {
	rows := []string{
		insert("games", "Game A", GameplayObject),
		insert("games", "婆婆来找茬", GameplayString),
		insert("games", "Game C", GameplayBroken),
		insert("games", "Game F", `{"core_gameplay":`),
	}
	for _, r := range [][]string{
		{"2026-01-19~2026-01-25", "wx", "Game A", "新进榜", "1", ""},
		{"2026-01-19~2026-01-25", "dy", "Game C", "飙升", "2", "↑12"},
		{"2026-01-19~2026-01-25", "ios", "Game E", "新进榜", "1", ""},
		{"2026-01-12~2026-01-18", "wx", "Game Z", "持平", "4", "0"},
	} {
		rows = append(rows, insert("weekly_report_simple", r...))
	}
	return rows
}

func sensorTowerRows() []string {
	rows := []string{
		insert("app_metadata", "app1", "ios", "Alpha Game", "Alpha Inc", "2024-05-01T00:00:00Z"),
		insert("app_metadata", "app2", "android", "Beta Game", "Beta Corp", ""),
		`INSERT INTO apple_top100 VALUES ('2026-01-26','US','free',1,'app1')`,
		`INSERT INTO apple_top100 VALUES ('2026-01-26','US','free',2,'app3')`,
		`INSERT INTO apple_top100 VALUES ('2026-01-26','US','free',2,'app3')`,
		`INSERT INTO apple_top100 VALUES ('2026-01-26','JP','grossing',1,'app1')`,
		`INSERT INTO android_top100 VALUES ('2026-01-26','US','free',1,'app2')`,
	}
	changes := []struct {
		week, last, signal, name, app, country, platform string
		rank                                             int
		lastRank, change, changeType                     string
		downloads, revenue                               string
		publisher                                        string
	}{
		{"2026-01-26", "2026-01-19", "free", "Alpha raw", "app1", "US", "IOS", 5, "20", "↑15", "🚀 排名飙升", "12000", "5000.5", ""},
		{"2026-01-26", "2026-01-19", "free", "", "app2", "US", "ANDROID", 3, "--", "NEW", "🆕 新进榜单", "800", "NULL", "Beta Pub"},
		{"2026-01-26", "2026-01-19", "free", "Delta", "app4", "US", "IOS", 40, "30", "↓10", "📉 排名下降", "NULL", "NULL", ""},
		{"2026-01-26", "2026-01-19", "free", "Epsilon", "app5", "US", "IOS", 12, "14", "↑2", "📈 排名上升", "NULL", "NULL", ""},
		{"2026-01-26", "2026-01-19", "grossing", "Zeta", "app6", "JP", "IOS", 60, "--", "NEW", "🆕 新进榜单", "NULL", "NULL", ""},
		{"2026-01-19", "2026-01-12", "free", "Alpha raw", "app1", "US", "IOS", 20, "23", "↑3", "📈 排名上升", "NULL", "NULL", ""},
	}
	for _, c := range changes {
		rows = append(rows, fmt.Sprintf(
			`INSERT INTO rank_changes VALUES (%s,%s,%s,%s,%s,%s,%s,%d,%s,%s,%s,%s,%s,%s)`,
			sqlQuote(c.week), sqlQuote(c.last), sqlQuote(c.signal), sqlQuote(c.name), sqlQuote(c.app),
			sqlQuote(c.country), sqlQuote(c.platform), c.rank, sqlQuote(c.lastRank), sqlQuote(c.change),
			sqlQuote(c.changeType), c.downloads, c.revenue, sqlQuote(c.publisher)))
	}
	return rows
}

// CompetitorReport is the stored body of the sample competitor weekly report.
const CompetitorReport = `{"company":"CompA","start_date":"2026-01-19","end_date":"2026-01-25","card":{"header":{"title":{"tag":"plain_text","content":"CompA 周报"}},"elements":[{"tag":"div","text":{"tag":"lark_md","content":"本周玩法更新：新增关卡"},"fields":[{"is_short":true,"text":{"tag":"lark_md","content":"**可用性评分**: 4.6 ⭐"}}]},{"tag":"hr"},{"tag":"div","fields":[{"is_short":true,"text":{"tag":"lark_md","content":"**可用性评分**: 3.8 ⭐"}}]}]}}`

func competitorRows() []string {
	return []string{
		fmt.Sprintf(`INSERT INTO weekly_reports VALUES (1,'CompA','2026-01-19','2026-01-25',%s,'2026-01-26 10:30:00')`, sqlQuote(CompetitorReport)),
		`INSERT INTO weekly_reports VALUES (2,'CompB','2026-01-12','2026-01-18','not json 线下活动','garbage')`,
	}
}

func insert(table string, vals ...string) string {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = sqlQuote(v)
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, strings.Join(quoted, ","))
}
