// Package classify routes upstream tokens to canonical platforms and categories.
//
// Lookups return ok=false for unknown tokens; callers drop such records.
package classify

import (
	"strings"

	"github.com/okian/monitor/internal/domain/model"
)

// NewEntryMarker is the change descriptor of a record that newly entered a chart.
const NewEntryMarker = "新进榜"

// DefaultSurgeThreshold is the minimum rank improvement classified as a surge.
const DefaultSurgeThreshold = 10

var platformCodes = map[string]model.RankingType{ //nolint:gochecknoglobals // lookup table
	"android": model.RankingAndroid,
	"ios":     model.RankingIOS,
	"dy":      model.RankingDouyin,
	"wx":      model.RankingWeChat,
}

var platformKeys = map[model.RankingType]string{ //nolint:gochecknoglobals // lookup table
	model.RankingWeChat:  "微信",
	model.RankingDouyin:  "抖音",
	model.RankingIOS:     "iOS",
	model.RankingAndroid: "安卓",
}

var weeklyBriefLabels = map[string]string{ //nolint:gochecknoglobals // lookup table
	"wx": "微信小游戏",
	"dy": "抖音小游戏",
	"微信": "微信小游戏",
	"抖音": "抖音小游戏",
}

// RankingTypeForCode maps a platform code (android, ios, dy, wx) to a ranking type.
func RankingTypeForCode(code string) (model.RankingType, bool) {
	t, ok := platformCodes[strings.ToLower(strings.TrimSpace(code))]
	return t, ok
}

// RankingTypeForLabel maps a mini-game platform label to a ranking type.
// Only the WeChat and Douyin labels are recognised.
func RankingTypeForLabel(label string) (model.RankingType, bool) {
	switch t := model.RankingType(strings.TrimSpace(label)); t {
	case model.RankingWeChat, model.RankingDouyin:
		return t, true
	}
	return "", false
}

// PlatformKeyForLabel returns the short platform key for a mini-game label.
func PlatformKeyForLabel(label string) (string, bool) {
	t, ok := RankingTypeForLabel(label)
	if !ok {
		return "", false
	}
	return platformKeys[t], true
}

// PlatformKey returns the short platform key of a ranking type.
func PlatformKey(t model.RankingType) (string, bool) {
	k, ok := platformKeys[t]
	return k, ok
}

// WeeklyBriefPlatformLabel expands a weekly brief platform token, returning
// the token unchanged when it is unknown.
func WeeklyBriefPlatformLabel(token string) string {
	if l, ok := weeklyBriefLabels[token]; ok {
		return l
	}
	return token
}

// DocumentPlatform maps a report document source token to a display platform.
func DocumentPlatform(source string) string {
	switch source {
	case "wechat":
		return "微信公众号"
	case "xhs":
		return "小红书"
	default:
		return "AI日报"
	}
}

// IsNewEntry reports whether change marks a record that newly entered a chart.
func IsNewEntry(change string) bool {
	return strings.TrimSpace(change) == NewEntryMarker
}

// IsSurge reports whether the leading integer of change is at least threshold.
func IsSurge(change string, threshold int) bool {
	n, ok := LeadingInt(change)
	return ok && n >= threshold
}

// LeadingInt parses an optionally signed decimal prefix after leading
// whitespace, ignoring any trailing text. "12名" yields 12; "↑12" fails.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// Classifier applies the new-entry and surge rules with a configured threshold.
type Classifier struct {
	surgeThreshold int
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{surgeThreshold: DefaultSurgeThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SurgeThreshold returns the configured surge threshold.
func (c *Classifier) SurgeThreshold() int { return c.surgeThreshold }

// Category returns the casual game category for a change descriptor. New
// entries win over surges; ok is false when neither rule matches.
func (c *Classifier) Category(change string) (model.CasualCategory, bool) {
	switch {
	case IsNewEntry(change):
		return model.CasualNewGame, true
	case IsSurge(change, c.surgeThreshold):
		return model.CasualNewGameplay, true
	}
	return "", false
}

// InCategory reports whether change belongs to category.
func (c *Classifier) InCategory(change string, category model.CasualCategory) bool {
	switch category {
	case model.CasualNewGame:
		return IsNewEntry(change)
	case model.CasualNewGameplay:
		return IsSurge(change, c.surgeThreshold)
	}
	return false
}
