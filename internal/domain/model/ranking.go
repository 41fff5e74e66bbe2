package model

// RankingEntry is one ranked item at a point in time.
type RankingEntry struct {
	ID               string   `json:"id"`
	Rank             int      `json:"rank"`
	Name             string   `json:"name"`
	Developer        string   `json:"developer,omitempty"`
	Downloads        string   `json:"downloads,omitempty"`
	Revenue          string   `json:"revenue,omitempty"`
	Mechanism        string   `json:"mechanism,omitempty"`
	MicroInnovations string   `json:"microInnovations,omitempty"`
	PlatformLabel    string   `json:"platformLabel,omitempty"`
	Country          string   `json:"country,omitempty"`
	CategoryID       string   `json:"categoryId,omitempty"`
	Category         string   `json:"category,omitempty"`
	ListType         string   `json:"listType,omitempty"`
	AppID            string   `json:"appId,omitempty"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`
	Signal           string   `json:"signal,omitempty"`
	LastRankRaw      string   `json:"lastRankRaw,omitempty"`
	ChangeType       string   `json:"changeType,omitempty"`
	Change           string   `json:"change"`
	UpdateDate       string   `json:"updateDate"`
	Score            *float64 `json:"score,omitempty"`
}

// ChangeOrNone returns the change descriptor, defaulting to NoChange.
func (e RankingEntry) ChangeOrNone() string {
	if e.Change == "" {
		return NoChange
	}
	return e.Change
}

// RankingTable is a dated collection of entries for one platform or category.
type RankingTable struct {
	Type       RankingType    `json:"type"`
	Title      string         `json:"title"`
	UpdateTime string         `json:"updateTime"`
	Period     string         `json:"period"`
	Items      []RankingEntry `json:"items"`
}

// NewRankingTable builds a table, filling empty change descriptors with NoChange.
func NewRankingTable(t RankingType, title, updateTime, period string, items []RankingEntry) RankingTable {
	out := make([]RankingEntry, len(items))
	for i, it := range items {
		it.Change = it.ChangeOrNone()
		out[i] = it
	}
	return RankingTable{Type: t, Title: title, UpdateTime: updateTime, Period: period, Items: out}
}
