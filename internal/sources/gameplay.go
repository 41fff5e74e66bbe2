package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/okian/monitor/internal/adapters/jsondoc"
	"github.com/okian/monitor/internal/domain/extract"
	"github.com/okian/monitor/pkg/logger"
)

const gameplayQuery = `SELECT gameplay_analysis FROM games WHERE game_name = ? LIMIT 1`

// gameplayDoc covers both stored analysis layouts: core_gameplay is either an
// object of mechanism/operation/rules/features, or a plain string next to
// baseline_game and innovation_points.
type gameplayDoc struct {
	CoreGameplay          json.RawMessage `json:"core_gameplay"`
	BaselineGame          json.RawMessage `json:"baseline_game"`
	InnovationPoints      json.RawMessage `json:"innovation_points"`
	BaselineAndInnovation json.RawMessage `json:"baseline_and_innovation"`
	Attraction            json.RawMessage `json:"attraction"`
}

type coreGameplay struct {
	Mechanism json.RawMessage `json:"mechanism"`
	Operation json.RawMessage `json:"operation"`
	Rules     json.RawMessage `json:"rules"`
	Features  json.RawMessage `json:"features"`
}

type attraction struct {
	Points           json.RawMessage `json:"points"`
	TargetAudience   json.RawMessage `json:"target_audience"`
	RetentionFactors json.RawMessage `json:"retention_factors"`
}

var baselineKeys = []string{"baseline", "innovation", "innovations", "summary", "highlights"} //nolint:gochecknoglobals // key order

// FormatGameplay renders a stored gameplay analysis as markdown. Strictly
// decodable analyses are rendered section by section; anything else goes
// through field recovery. ok is false when nothing renderable was found.
func FormatGameplay(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	res := jsondoc.Decode[gameplayDoc]([]byte(raw))
	var parts []string
	if res.Strict {
		parts = renderGameplay(res.Value)
	} else {
		parts = renderRecovered(res.Recovered)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

func renderGameplay(d gameplayDoc) []string {
	var parts []string
	section := func(lines ...string) {
		if len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, lines...)
	}

	var core coreGameplay
	if isObject(d.CoreGameplay) && json.Unmarshal(d.CoreGameplay, &core) == nil {
		mech, op, rules, feat := text(core.Mechanism), text(core.Operation), text(core.Rules), text(core.Features)
		if mech != "" || op != "" || rules != "" || feat != "" {
			parts = append(parts, "## 核心玩法", "")
			if mech != "" {
				parts = append(parts, mech, "")
			}
			if op != "" {
				parts = append(parts, "**操作方式**："+op)
			}
			if rules != "" {
				parts = append(parts, "**规则**："+rules)
			}
			if feat != "" {
				parts = append(parts, "**玩法特性**："+feat)
			}
		}
	} else if s := text(d.CoreGameplay); s != "" {
		parts = append(parts, "## 核心玩法", "", s, "")
	}

	if s := text(d.BaselineGame); s != "" {
		section("## 基线品类", "", s, "")
	}

	var points []json.RawMessage
	if json.Unmarshal(d.InnovationPoints, &points) == nil {
		var lines []string
		for _, p := range points {
			if s := text(p); s != "" {
				lines = append(lines, "- "+s)
			}
		}
		if len(lines) > 0 {
			section(append(append([]string{"## 创新点", ""}, lines...), "")...)
		}
	}

	if fields, ok := orderedObject(d.BaselineAndInnovation); ok {
		var lines []string
		for _, k := range baselineKeys {
			if s := text(fields.get(k)); s != "" {
				lines = append(lines, s, "")
			}
		}
		for _, f := range fields {
			if contains(baselineKeys, f.key) {
				continue
			}
			if s := text(f.value); s != "" {
				lines = append(lines, s, "")
			}
		}
		if len(lines) > 0 {
			section(append([]string{"## 基线与创新点", ""}, lines...)...)
		}
	}

	var a attraction
	if isObject(d.Attraction) && json.Unmarshal(d.Attraction, &a) == nil {
		var lines []string
		if s := text(a.Points); s != "" {
			lines = append(lines, s)
		}
		if s := text(a.TargetAudience); s != "" {
			lines = append(lines, "**目标用户**："+s)
		}
		if s := text(a.RetentionFactors); s != "" {
			lines = append(lines, "**留存因素**："+s)
		}
		if len(lines) > 0 {
			section(append([]string{"## 吸引力与留存", ""}, lines...)...)
		}
	}
	return parts
}

func renderRecovered(f extract.Fields) []string {
	var parts []string
	if lead := or(f.Mechanism, f.CoreGameplay); lead != "" {
		parts = append(parts, "## 核心玩法", "", lead, "")
		if f.Operation != "" {
			parts = append(parts, "**操作方式**："+f.Operation)
		}
		if f.Rules != "" {
			parts = append(parts, "**规则**："+f.Rules)
		}
		if f.Features != "" {
			parts = append(parts, "**玩法特性**："+f.Features)
		}
	}
	if f.Baseline != "" {
		if len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, "## 基线与创新点", "", f.Baseline)
	}
	return parts
}

// text returns the trimmed string held by raw, or "" for any other JSON value.
func text(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

type field struct {
	key   string
	value json.RawMessage
}

type fieldList []field

func (l fieldList) get(key string) json.RawMessage {
	for _, f := range l {
		if f.key == key {
			return f.value
		}
	}
	return nil
}

// orderedObject decodes a JSON object keeping its key order.
func orderedObject(raw json.RawMessage) (fieldList, bool) {
	if !isObject(raw) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	var out fieldList
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, false
		}
		out = append(out, field{key: key, value: v})
	}
	return out, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// gameplayLookup resolves gameplay write-ups from the videos snapshot for one
// run. After the first load failure it stops asking.
type gameplayLookup struct {
	env    *Env
	failed bool
}

// content returns the rendered write-up for name, trying configured aliases.
func (g *gameplayLookup) content(ctx context.Context, name string) (string, bool) {
	if g.failed {
		return "", false
	}
	names := []string{name}
	if alias, ok := g.env.aliases[name]; ok && alias != name {
		names = append(names, alias)
	}
	for _, n := range names {
		rows, err := g.env.query(ctx, ResourceVideosDB, gameplayQuery, n)
		if err != nil {
			g.failed = true
			g.env.log.Warn(ctx, "gameplay lookup disabled for this run",
				logger.String("game", n), logger.Error(err))
			return "", false
		}
		if len(rows) == 0 {
			continue
		}
		raw := strings.TrimSpace(rows[0].String("gameplay_analysis"))
		if raw == "" {
			continue
		}
		if md, ok := FormatGameplay(raw); ok {
			return md, true
		}
		if extract.LooksUnrecovered(raw) {
			return extract.RecoveryFailed, true
		}
		return raw, true
	}
	g.env.log.Debug(ctx, "no gameplay analysis", logger.String("game", name))
	return "", false
}
