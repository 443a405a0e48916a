package router

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Temporal detection is independent of the topic classifier and is computed
// the same way on both router paths, since it gates freshness decisions
// downstream.

var (
	yearRe         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	recencyRe      = regexp.MustCompile(`\b(today|yesterday|tomorrow|tonight|recently|lately|this year|this month|this week|this quarter|this morning|this afternoon|this evening)\b`)
	electionRe     = regexp.MustCompile(`\b(election|vote|voting|polls|ballot|runoff|primary)\b`)
	weatherEventRe = regexp.MustCompile(`\b(storm (system|warning)|weather (alert|advisory)|heatwave|heat wave|hurricane|typhoon|tornado|flooding|flash flood|wildfire|earthquake)\b`)
)

// nowFunc is injectable for tests
var nowFunc = time.Now

// LooksTemporal reports whether the text is time-sensitive: an explicit year
// no older than last year, recency phrasing, election/voting mentions, or
// acute weather/disaster events.
func LooksTemporal(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}

	cutoff := nowFunc().Year() - 1
	for _, m := range yearRe.FindAllString(t, -1) {
		if y, err := strconv.Atoi(m); err == nil && y >= cutoff {
			return true
		}
	}

	return recencyRe.MatchString(t) || electionRe.MatchString(t) || weatherEventRe.MatchString(t)
}
