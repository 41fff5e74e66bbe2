package extract

import (
	"regexp"
	"strings"
)

// RecoveryFailed replaces content that still looks like undecoded structured data.
const RecoveryFailed = "（玩法说明解析失败，请稍后重试或联系管理员检查数据格式。）"

var (
	fieldPattern = regexp.MustCompile(`"(mechanism|operation|rules|features|baseline|innovation|summary|core_gameplay|baseline_game)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	rawSyntax    = regexp.MustCompile("^\\s*```|\"core_gameplay\"|\"mechanism\"\\s*:")
)

// Fields are gameplay fields recovered from JSON-like text.
type Fields struct {
	Mechanism    string
	Operation    string
	Rules        string
	Features     string
	CoreGameplay string
	// Baseline joins baseline, baseline_game, innovation and summary values.
	Baseline string
}

// Empty reports whether nothing was recovered.
func (f Fields) Empty() bool {
	return f == Fields{}
}

// RecoverFields scans text for known string fields without requiring the
// surrounding syntax to be valid. Later occurrences of a field win, except
// for the baseline group, which accumulates.
func RecoverFields(text string) Fields {
	var f Fields
	for _, m := range fieldPattern.FindAllStringSubmatch(text, -1) {
		v := strings.ReplaceAll(m[2], `\"`, `"`)
		v = strings.TrimSpace(strings.ReplaceAll(v, `\\`, `\`))
		if v == "" {
			continue
		}
		switch m[1] {
		case "mechanism":
			f.Mechanism = v
		case "operation":
			f.Operation = v
		case "rules":
			f.Rules = v
		case "features":
			f.Features = v
		case "core_gameplay":
			f.CoreGameplay = v
		default:
			if f.Baseline != "" {
				f.Baseline += "\n\n"
			}
			f.Baseline += v
		}
	}
	return f
}

// LooksUnrecovered reports whether text still carries raw structured syntax:
// a leading code fence or an unresolved gameplay field marker.
func LooksUnrecovered(text string) bool {
	return rawSyntax.MatchString(text)
}
