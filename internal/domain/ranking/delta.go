package ranking

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/monitor/internal/domain/model"
)

// Delta is a rank change parsed from a change descriptor.
type Delta struct {
	Value int
	New   bool
}

// Magnitude is the sort weight of d. New entries weigh the most.
func (d Delta) Magnitude() int {
	if d.New {
		return math.MaxInt
	}
	if d.Value < 0 {
		return -d.Value
	}
	return d.Value
}

var (
	deltaPattern = regexp.MustCompile(`^([↑↓+\-]?)\s*(\d+)`)
	surgePattern = regexp.MustCompile(`↑\s*(\d+)`)
)

// ParseDelta reads change descriptors such as "↑12", "↓3", "+4", "-5" or "7".
// "NEW", "新进榜" and "🆕" mark a new entry. "--", "—", "持平", empty and
// malformed text yield a zero delta.
func ParseDelta(change string) Delta {
	s := strings.TrimSpace(change)
	if strings.EqualFold(s, "NEW") || strings.Contains(s, "新进榜") || strings.Contains(s, "🆕") {
		return Delta{New: true}
	}
	m := deltaPattern.FindStringSubmatch(s)
	if m == nil {
		return Delta{}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Delta{}
	}
	if m[1] == "↓" || m[1] == "-" {
		n = -n
	}
	return Delta{Value: n}
}

// SurgeValue returns the upward move in change ("↑ 12" -> 12), or 0.
func SurgeValue(change string) int {
	if change == "" || change == "NEW" {
		return 0
	}
	m := surgePattern.FindStringSubmatch(strings.TrimSpace(change))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Policy orders entries of a change/delta table.
//
// The primary key is the entry's change class: the index of the first class
// listing its change type, then its change descriptor. Entries matching no
// class fall back to their parsed delta (new or at least SurgeThreshold: the
// surge class; positive: the rise class; negative: the fall class). Anything
// else is unclassified and sorts last. The secondary key is delta magnitude,
// largest first, and the tertiary key is rank ascending.
type Policy struct {
	classes        [][]string
	surgeThreshold int
	surgeClass     int
	riseClass      int
	fallClass      int
}

// NewPolicy builds a Policy from ordered classes, highest first, each listing
// aliases separated by "|".
func NewPolicy(classes []string, surgeThreshold int) *Policy {
	p := &Policy{surgeThreshold: surgeThreshold, surgeClass: -1, riseClass: -1, fallClass: -1}
	for _, c := range classes {
		var aliases []string
		for _, a := range strings.Split(c, "|") {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}
		p.classes = append(p.classes, aliases)
	}
	p.surgeClass = p.classContaining("飙升", "新进")
	p.riseClass = p.classContaining("上升")
	p.fallClass = p.classContaining("下降")
	return p
}

// DefaultPolicy uses the standard change classes and a surge threshold of 10.
func DefaultPolicy() *Policy {
	return NewPolicy([]string{
		"🚀 排名飙升|🆕 新进榜单|飙升|新进榜",
		"📈 排名上升|上升",
		"📉 排名下降|下降",
	}, 10)
}

func (p *Policy) classContaining(words ...string) int {
	for i, aliases := range p.classes {
		for _, a := range aliases {
			for _, w := range words {
				if strings.Contains(a, w) {
					return i
				}
			}
		}
	}
	return -1
}

func (p *Policy) lookup(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return -1
	}
	for i, aliases := range p.classes {
		for _, a := range aliases {
			if a == token {
				return i
			}
		}
	}
	return -1
}

// Class returns the change class index of e. Unclassified entries get
// len(classes).
func (p *Policy) Class(e model.RankingEntry) int {
	if c := p.lookup(e.ChangeType); c >= 0 {
		return c
	}
	if c := p.lookup(e.Change); c >= 0 {
		return c
	}
	d := ParseDelta(e.Change)
	c := -1
	switch {
	case d.New || d.Value >= p.surgeThreshold:
		c = p.surgeClass
	case d.Value > 0:
		c = p.riseClass
	case d.Value < 0:
		c = p.fallClass
	}
	if c < 0 {
		return len(p.classes)
	}
	return c
}

type sortKey struct {
	class     int
	magnitude int
	rank      int
}

// Sort orders entries in place. Equal keys keep input order.
func (p *Policy) Sort(entries []model.RankingEntry) {
	keys := make([]sortKey, len(entries))
	for i, e := range entries {
		keys[i] = sortKey{class: p.Class(e), magnitude: ParseDelta(e.Change).Magnitude(), rank: e.Rank}
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.class != kb.class {
			return ka.class < kb.class
		}
		if ka.magnitude != kb.magnitude {
			return ka.magnitude > kb.magnitude
		}
		return ka.rank < kb.rank
	})
	sorted := make([]model.RankingEntry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	copy(entries, sorted)
}
