package projections

import (
	"context"
	"sort"
	"time"

	attendanceStore "fjorlistinn/internal/adapters/storage/attendance"
	studentStore "fjorlistinn/internal/adapters/storage/student"
)

// Leaderboard periods. The window always ends today.
const (
	PeriodWeek  = "week"  // current ISO week, from Monday
	PeriodMonth = "month" // current calendar month
	PeriodAll   = "all"
)

// LeaderboardSize caps how many students the board shows.
const LeaderboardSize = 20

// LeaderboardEntry is one row of the board, ordered by attendance count.
type LeaderboardEntry struct {
	StudentID string
	Name      string
	School    string
	Grade     int
	Count     int
}

// LeaderboardDeps holds dependencies for QueryLeaderboard.
type LeaderboardDeps struct {
	LedgerStore  StatsRangeLedgerStore
	StudentStore StatsStudentListStore
	Now          func() time.Time
}

// QueryLeaderboard ranks a center's students by check-in count within the
// period. Ties break alphabetically so the order is stable between loads.
// PRE: centerID is non-empty; period is week, month, or all ("" means month)
// POST: At most LeaderboardSize rows, counts descending
func QueryLeaderboard(ctx context.Context, centerID string, period string, deps LeaderboardDeps) ([]LeaderboardEntry, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	today := now()

	var start string
	switch period {
	case PeriodWeek:
		// Back up to Monday of the current ISO week.
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset).Format("2006-01-02")
	case PeriodAll:
		start = "0001-01-01"
	default:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).Format("2006-01-02")
	}

	entries, err := deps.LedgerStore.ListByDateRange(ctx, attendanceStore.RangeFilter{
		CenterID:  centerID,
		StartDate: start,
		EndDate:   today.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.StudentID]++
	}

	// Names come from the full roster: a visiting student's home center may
	// differ from the center whose board we are building.
	students, err := deps.StudentStore.List(ctx, studentStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	board := make([]LeaderboardEntry, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, s := range students {
		n, ok := counts[s.ID]
		if !ok {
			continue
		}
		seen[s.ID] = true
		board = append(board, LeaderboardEntry{
			StudentID: s.ID, Name: s.Name, School: s.School, Grade: s.Grade, Count: n,
		})
	}
	// Entries whose student is unknown (purged) still count, nameless.
	for id, n := range counts {
		if !seen[id] {
			board = append(board, LeaderboardEntry{StudentID: id, Count: n})
		}
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].Count != board[j].Count {
			return board[i].Count > board[j].Count
		}
		return board[i].Name < board[j].Name
	})
	if len(board) > LeaderboardSize {
		board = board[:LeaderboardSize]
	}
	return board, nil
}
