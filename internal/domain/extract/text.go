// Package extract holds pure pattern matchers that pull labelled fields out of
// semi-structured report text. Every matcher is optional: a missing label
// yields a zero value, never an error.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

var (
	newlineRun  = regexp.MustCompile(`\n+`)
	boldMarker  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	headingMark = regexp.MustCompile(`#{1,6}\s+`)
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

	gameplayHeading = regexp.MustCompile(`##\s*核心玩法\s*\n\n`)
	nextHeading     = regexp.MustCompile(`\n##`)
)

// Truncate cuts s to n runes and appends Ellipsis when anything was cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + Ellipsis
}

// Flatten collapses newline runs into single spaces and trims the result.
func Flatten(s string) string {
	return strings.TrimSpace(newlineRun.ReplaceAllString(s, " "))
}

// ShortDate turns "2026-01-28" into "01-28". Other values are returned as is.
func ShortDate(date string) string {
	if isoDate.MatchString(date) {
		return date[5:10]
	}
	return date
}

// after returns the text following the first match of start, or false.
func after(text string, start *regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[1]:], true
}

// until returns the shortest prefix of rest that ends right before one of
// stops. With allowEOF the whole of rest is accepted when no stop occurs.
// Unless allowEmpty is set the prefix holds at least one rune.
func until(rest string, stops []*regexp.Regexp, allowEOF, allowEmpty bool) (string, bool) {
	offset := 0
	if !allowEmpty {
		if rest == "" {
			return "", false
		}
		_, offset = utf8.DecodeRuneInString(rest)
	}
	end := -1
	for _, stop := range stops {
		if loc := stop.FindStringIndex(rest[offset:]); loc != nil {
			if at := offset + loc[0]; end < 0 || at < end {
				end = at
			}
		}
	}
	if end < 0 {
		if !allowEOF {
			return "", false
		}
		end = len(rest)
	}
	return rest[:end], true
}

// capture finds start and returns the text up to the nearest stop.
func capture(text string, start *regexp.Regexp, stops []*regexp.Regexp, allowEOF bool) (string, bool) {
	rest, ok := after(text, start)
	if !ok {
		return "", false
	}
	return until(rest, stops, allowEOF, false)
}

// submatch returns the first capture group of re in text, trimmed.
func submatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Section returns the trimmed body of the "## heading" section of md, up to
// the next level-two heading or the end of the text.
func Section(md, heading string) string {
	start := regexp.MustCompile(`(?m)^##\s*` + regexp.QuoteMeta(heading) + `[ \t]*\n`)
	body, ok := capture(md, start, []*regexp.Regexp{nextHeading}, true)
	if !ok {
		return ""
	}
	return strings.TrimSpace(body)
}

func plain(s string) string {
	s = boldMarker.ReplaceAllString(s, "$1")
	s = headingMark.ReplaceAllString(s, "")
	return Flatten(s)
}

// GameplaySummary summarises a gameplay write-up. It prefers the core
// gameplay section and falls back to the whole text, capped at 200 runes.
func GameplaySummary(md string) string {
	if body, ok := capture(md, gameplayHeading, []*regexp.Regexp{nextHeading}, true); ok {
		if p := plain(strings.TrimSpace(body)); p != "" {
			return Truncate(p, 200)
		}
	}
	s := headingMark.ReplaceAllString(md, "")
	s = boldMarker.ReplaceAllString(s, "$1")
	return Truncate(Flatten(s), 200)
}
