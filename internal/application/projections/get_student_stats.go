package projections

import (
	"context"
	"time"

	"fjorlistinn/internal/domain/attendance"
	"fjorlistinn/internal/domain/gamification"
	"fjorlistinn/internal/domain/student"
)

// StatsStudentStore defines the student store interface for stats reads.
type StatsStudentStore interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// StatsLedgerStore defines the ledger store interface for stats reads.
type StatsLedgerStore interface {
	ListByStudentID(ctx context.Context, studentID string) ([]attendance.Entry, error)
}

// StatsMilestoneStore defines the milestone store interface for stats reads.
type StatsMilestoneStore interface {
	ClaimUnnotified(ctx context.Context, studentID string) (*gamification.StudentMilestone, error)
}

// StudentStatsResult is the gamification summary shown after a check-in
// and on the student profile.
type StudentStatsResult struct {
	StudentID            string
	Name                 string
	TotalCount           int
	StreakWeeks          int
	Title                string
	MilestoneJustReached string // celebratory message, "" when none pending
	DaysSinceLast        int    // -1 when the student has never attended
	FirstAttendance      string // YYYY-MM-DD, "" when none
	LastAttendance       string // YYYY-MM-DD, "" when none
	Status               string // activity bucket
}

// StudentStatsDeps holds dependencies for QueryStudentStats.
type StudentStatsDeps struct {
	StudentStore   StatsStudentStore
	LedgerStore    StatsLedgerStore
	MilestoneStore StatsMilestoneStore
	Now            func() time.Time
}

// QueryStudentStats computes the full gamification summary for a student.
// The pending-milestone claim is consumed here, so the celebratory message
// appears on exactly one stats read after the triggering check-in.
// PRE: studentID names an existing student
// POST: Counts, streak, and title derived from the ledger; milestone
// message returned at most once per threshold
func QueryStudentStats(ctx context.Context, studentID string, deps StudentStatsDeps) (StudentStatsResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	s, err := deps.StudentStore.GetByID(ctx, studentID)
	if err != nil {
		return StudentStatsResult{}, err
	}

	entries, err := deps.LedgerStore.ListByStudentID(ctx, studentID)
	if err != nil {
		return StudentStatsResult{}, err
	}

	result := StudentStatsResult{
		StudentID:     s.ID,
		Name:          s.Name,
		TotalCount:    len(entries),
		Title:         gamification.TitleFor(len(entries)),
		DaysSinceLast: -1,
	}

	dates := make([]string, 0, len(entries))
	first, last := "", ""
	for _, e := range entries {
		dates = append(dates, e.Date)
		if first == "" || e.Date < first {
			first = e.Date
		}
		if e.Date > last {
			last = e.Date
		}
	}
	result.StreakWeeks = gamification.StreakWeeks(dates)
	result.FirstAttendance = first
	result.LastAttendance = last

	if last != "" {
		if lastDay, err := time.Parse("2006-01-02", last); err == nil {
			today := now()
			midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			days := int(midnight.Sub(lastDay).Hours() / 24)
			if days < 0 {
				days = 0
			}
			result.DaysSinceLast = days
			result.Status = gamification.StatusBucket(days)
		}
	}

	if deps.MilestoneStore != nil {
		claimed, err := deps.MilestoneStore.ClaimUnnotified(ctx, studentID)
		if err != nil {
			return StudentStatsResult{}, err
		}
		if claimed != nil {
			result.MilestoneJustReached = gamification.MilestoneMessage(claimed.Threshold)
		}
	}

	return result, nil
}
