package gamification

import (
	"time"
)

// Title tiers, ordered by ascending attendance count. Exactly one tier
// matches any non-negative count; zero maps to the lowest tier.
type Title struct {
	Min  int
	Max  int
	Name string
}

// Titles is the ordered tier table.
var Titles = []Title{
	{Min: 0, Max: 4, Name: "Nýliði"},
	{Min: 5, Max: 9, Name: "Fjörgæðingur"},
	{Min: 10, Max: 24, Name: "Fjörvinur"},
	{Min: 25, Max: 49, Name: "Fjörstjarna"},
	{Min: 50, Max: 99, Name: "Fjörhetja"},
	{Min: 100, Max: 999999, Name: "Fjörmeistari"},
}

// Milestones is the fixed set of total-count thresholds that trigger a
// one-time celebratory signal, with their messages.
var Milestones = map[int]string{
	1:   "Velkomin/n í Fjörlistann! 🎉",
	10:  "Tíu mætingar! Þú ert komin/n vel af stað! 🌟",
	25:  "Tuttugu og fimm! Þú ert alvöru Fjörvinur! ⭐",
	50:  "Fimmtíu mætingar! Ótrúlegt! 🏆",
	75:  "Sjötíu og fimm! Þú ert legend! 💎",
	100: "HUNDRAÐ MÆTINGAR! Þú ert Fjörmeistari! 👑",
}

// Activity status buckets. Boundary values (7, 14, 30, 60) belong to the
// lower bucket; together the five buckets partition all non-negative days.
const (
	StatusActive          = "virkir"         // 0-7 days
	StatusFading          = "ad_detta"       // 8-14 days
	StatusRecentlyStopped = "nylega_haettir" // 15-30 days
	StatusStopped         = "haettir"        // 31-60 days
	StatusInactive        = "ovirkir"        // 61+ days
)

// StatusBuckets lists all buckets in order of increasing inactivity.
var StatusBuckets = []string{StatusActive, StatusFading, StatusRecentlyStopped, StatusStopped, StatusInactive}

// TitleFor returns the title name for a total attendance count.
// PRE: totalCount >= 0
// POST: Returns exactly one matching tier name
func TitleFor(totalCount int) string {
	for _, t := range Titles {
		if totalCount >= t.Min && totalCount <= t.Max {
			return t.Name
		}
	}
	return Titles[len(Titles)-1].Name
}

// MilestoneMessage returns the celebratory message when totalCount is a
// milestone value, or "" otherwise.
func MilestoneMessage(totalCount int) string {
	return Milestones[totalCount]
}

// IsMilestone reports whether totalCount is in the milestone set.
func IsMilestone(totalCount int) bool {
	_, ok := Milestones[totalCount]
	return ok
}

// StatusBucket maps days-since-last-attendance to an activity bucket.
// PRE: daysSinceLast >= 0
// POST: Returns exactly one bucket; boundaries go to the lower bucket
func StatusBucket(daysSinceLast int) string {
	switch {
	case daysSinceLast <= 7:
		return StatusActive
	case daysSinceLast <= 14:
		return StatusFading
	case daysSinceLast <= 30:
		return StatusRecentlyStopped
	case daysSinceLast <= 60:
		return StatusStopped
	default:
		return StatusInactive
	}
}

// StreakWeeks counts consecutive ISO calendar weeks with at least one
// attendance date, walking backward from the most recent date's week.
// A gap week ends the count; only the trailing run matters.
// PRE: dates are YYYY-MM-DD strings, any order, duplicates allowed
// POST: Returns 0 for no parseable dates, otherwise the trailing run length
func StreakWeeks(dates []string) int {
	weeks := make(map[isoWeek]bool)
	var latest time.Time
	found := false
	for _, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		weeks[weekOf(t)] = true
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	if !found {
		return 0
	}

	streak := 0
	cursor := latest
	for weeks[weekOf(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -7)
	}
	return streak
}

// isoWeek identifies an ISO 8601 calendar week.
type isoWeek struct {
	year int
	week int
}

func weekOf(t time.Time) isoWeek {
	y, w := t.ISOWeek()
	return isoWeek{year: y, week: w}
}

// StudentMilestone records a milestone a student has reached. The Notified
// flag ensures milestoneJustReached fires exactly once, on the stats call
// that follows the triggering check-in.
type StudentMilestone struct {
	ID        string
	StudentID string
	Threshold int
	ReachedAt time.Time
	Notified  bool
}
