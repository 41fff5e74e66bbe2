// Package model contains the canonical records handed to the presentation layer.
package model

// RankingType names a ranking table platform or category.
type RankingType string

const (
	RankingWeChat     RankingType = "微信小游戏"
	RankingDouyin     RankingType = "抖音小游戏"
	RankingAndroid    RankingType = "安卓游戏"
	RankingIOS        RankingType = "iOS游戏"
	RankingMovers     RankingType = "榜单异动"
	RankingCompetitor RankingType = "竞品动态"
)

// MonitorType is the primary routing type of a Monitor Item.
type MonitorType string

const (
	MonitorAIHot      MonitorType = "ai热点检测"
	MonitorHotTrend   MonitorType = "热点趋势检测"
	MonitorCompetitor MonitorType = "竞品社媒监控"
	MonitorCasualGame MonitorType = "休闲游戏检测"
	MonitorAIProduct  MonitorType = "AI产品检测"
)

// CasualCategory is the category of a casual game item.
type CasualCategory string

const (
	CasualNewGame     CasualCategory = "新游戏"
	CasualNewGameplay CasualCategory = "新玩法"
	CasualBreakdown   CasualCategory = "玩法拆解"
	CasualCompetitor  CasualCategory = "竞品"
	CasualWeeklyBrief CasualCategory = "周报简要"
)

// CompetitorSub is the sub-category under CasualCompetitor.
type CompetitorSub string

const (
	CompetitorSocial CompetitorSub = "社媒更新"
	CompetitorUA     CompetitorSub = "UA素材"
)

// AIProductSub is the sub-category of an AI product item.
type AIProductSub string

const (
	AIProductWeekly     AIProductSub = "产品周报"
	AIProductUA         AIProductSub = "UA素材"
	AIProductCompetitor AIProductSub = "竞品动态"
	AIProductNew        AIProductSub = "新产品速览"
)

// CasualSource isolates casual game items by upstream partition.
type CasualSource string

const (
	SourceWeChatDouyin CasualSource = "wechat_douyin"
	SourceSensorTower  CasualSource = "sensortower"
)

// NoChange is the change descriptor used when no change is known.
const NoChange = "--"

// NoContent is the body used when a document has nothing to show.
const NoContent = "暂无内容"
