package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Time modifier kinds.
const (
	TimePast     = "past"
	TimeFuture   = "future"
	TimeRange    = "range"
	TimeSeason   = "season"
	TimeRelative = "relative"
)

// TimeModifier is a time reference extracted from a query. It can attach to
// any intent: "arsenal last 5 games", "fixtures this weekend",
// "haaland 2023-24 season".
type TimeModifier struct {
	Kind        string
	Start       time.Time
	End         time.Time
	Count       int    // for "last 5", "next 3"
	Relative    string // "today", "tomorrow", "weekend", ...
	SeasonYear  int    // starting year for "2023-24" or "last season"
	MatchedText string
}

var (
	lastNPattern   = regexp.MustCompile(`last\s+(\d+)\s*(?:games?|matches?|fixtures?)?`)
	nextNPattern   = regexp.MustCompile(`next\s+(\d+)\s*(?:games?|matches?|fixtures?)?`)
	seasonPattern  = regexp.MustCompile(`(\d{4})[-/](\d{2,4})|(\d{4})\s+season|last\s+season|this\s+season|current\s+season`)
	weekendPattern = regexp.MustCompile(`(this|next|last)\s+weekend`)
)

var relativeDays = map[string]int{
	"today":     0,
	"tomorrow":  1,
	"yesterday": -1,
}

// ExtractTime pulls a time reference out of normalized query text, returning
// the text with the reference removed and the modifier, or nil when the
// query carries no time reference.
func ExtractTime(text string) (string, *TimeModifier) {
	return extractTimeAt(text, time.Now())
}

// extractTimeAt is the clock-injected form used by tests.
func extractTimeAt(text string, now time.Time) (string, *TimeModifier) {
	lower := strings.ToLower(text)

	if m := lastNPattern.FindStringSubmatchIndex(lower); m != nil {
		count, _ := strconv.Atoi(lower[m[2]:m[3]])
		return cut(lower, m[0], m[1]), &TimeModifier{
			Kind:        TimePast,
			Count:       count,
			MatchedText: lower[m[0]:m[1]],
		}
	}

	if m := nextNPattern.FindStringSubmatchIndex(lower); m != nil {
		count, _ := strconv.Atoi(lower[m[2]:m[3]])
		return cut(lower, m[0], m[1]), &TimeModifier{
			Kind:        TimeFuture,
			Count:       count,
			MatchedText: lower[m[0]:m[1]],
		}
	}

	for word, offset := range relativeDays {
		if idx := indexWord(lower, word); idx >= 0 {
			day := now.AddDate(0, 0, offset)
			start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
			return cut(lower, idx, idx+len(word)), &TimeModifier{
				Kind:        TimeRelative,
				Start:       start,
				End:         start.AddDate(0, 0, 1),
				Relative:    word,
				MatchedText: word,
			}
		}
	}

	if m := weekendPattern.FindStringSubmatchIndex(lower); m != nil {
		qualifier := lower[m[2]:m[3]]
		daysToSaturday := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
		switch qualifier {
		case "last":
			daysToSaturday -= 7
		case "next":
			daysToSaturday += 7
		}
		saturday := now.AddDate(0, 0, daysToSaturday)
		start := time.Date(saturday.Year(), saturday.Month(), saturday.Day(), 0, 0, 0, 0, saturday.Location())
		return cut(lower, m[0], m[1]), &TimeModifier{
			Kind:        TimeRange,
			Start:       start,
			End:         start.AddDate(0, 0, 2),
			Relative:    "weekend",
			MatchedText: lower[m[0]:m[1]],
		}
	}

	if m := seasonPattern.FindStringSubmatchIndex(lower); m != nil {
		matched := lower[m[0]:m[1]]
		year := 0
		switch {
		case strings.Contains(matched, "last"):
			year = seasonYear(now) - 1
		case m[2] >= 0: // "2024-25" or "2024/2025"
			year, _ = strconv.Atoi(lower[m[2]:m[3]])
		case m[6] >= 0: // "2024 season"
			year, _ = strconv.Atoi(lower[m[6]:m[7]])
		default: // "this season", "current season"
			year = seasonYear(now)
		}
		return cut(lower, m[0], m[1]), &TimeModifier{
			Kind:        TimeSeason,
			SeasonYear:  year,
			MatchedText: matched,
		}
	}

	return text, nil
}

// seasonYear mirrors config.CurrentSeason without the import cycle.
func seasonYear(now time.Time) int {
	if now.Month() <= time.July {
		return now.Year() - 1
	}
	return now.Year()
}

func cut(s string, from, to int) string {
	out := s[:from] + s[to:]
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// indexWord finds word as a whole token inside s, or -1.
func indexWord(s, word string) int {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || s[start-1] == ' '
		afterOK := end == len(s) || s[end] == ' '
		if beforeOK && afterOK {
			return start
		}
		idx = end
	}
}
