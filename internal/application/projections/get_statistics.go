package projections

import (
	"context"
	"fmt"

	attendanceStore "fjorlistinn/internal/adapters/storage/attendance"
	studentStore "fjorlistinn/internal/adapters/storage/student"
	"fjorlistinn/internal/domain/attendance"
	"fjorlistinn/internal/domain/midstig"
	"fjorlistinn/internal/domain/schedule"
	"fjorlistinn/internal/domain/student"
	"time"
)

// StatsRangeLedgerStore defines the ledger store interface for rollups.
type StatsRangeLedgerStore interface {
	ListByDateRange(ctx context.Context, filter attendanceStore.RangeFilter) ([]attendance.Entry, error)
}

// StatsMidstigStore defines the midstig store interface for rollups.
type StatsMidstigStore interface {
	ListByDateRange(ctx context.Context, centerID string, startDate string, endDate string) ([]midstig.Entry, error)
}

// StatsStudentListStore defines the student store interface for rollups.
type StatsStudentListStore interface {
	List(ctx context.Context, filter studentStore.ListFilter) ([]student.Student, error)
}

// StatisticsInput bounds a rollup query. CenterID may be empty for all
// centers (admin view).
type StatisticsInput struct {
	CenterID  string
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive
}

// StatisticsResult holds attendance rollups keyed by period or dimension.
// Individual ledger rows count 1 each; midstig headcounts contribute their
// full counts to the day, school, and grade rollups.
type StatisticsResult struct {
	Total     int
	ByDay     map[string]int // YYYY-MM-DD
	ByWeek    map[string]int // YYYY-Www (ISO week)
	ByMonth   map[string]int // YYYY-MM
	BySchool  map[string]int
	ByGrade   map[string]int // "5".."10"
	ByWeekday map[string]int // monday..sunday
}

// StatisticsDeps holds dependencies for QueryStatistics.
type StatisticsDeps struct {
	LedgerStore  StatsRangeLedgerStore
	MidstigStore StatsMidstigStore
	StudentStore StatsStudentListStore
}

// QueryStatistics recomputes attendance rollups from the raw rows on every
// call. Nothing is cached or pre-aggregated, so the numbers always agree
// with the ledger.
// PRE: StartDate <= EndDate, both YYYY-MM-DD
// POST: All maps populated; absent keys mean zero
func QueryStatistics(ctx context.Context, input StatisticsInput, deps StatisticsDeps) (StatisticsResult, error) {
	result := StatisticsResult{
		ByDay:     map[string]int{},
		ByWeek:    map[string]int{},
		ByMonth:   map[string]int{},
		BySchool:  map[string]int{},
		ByGrade:   map[string]int{},
		ByWeekday: map[string]int{},
	}

	entries, err := deps.LedgerStore.ListByDateRange(ctx, attendanceStore.RangeFilter{
		CenterID:  input.CenterID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return StatisticsResult{}, err
	}

	students, err := deps.StudentStore.List(ctx, studentStore.ListFilter{})
	if err != nil {
		return StatisticsResult{}, err
	}
	byID := make(map[string]student.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	for _, e := range entries {
		result.Total++
		result.ByDay[e.Date]++
		day, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		year, week := day.ISOWeek()
		result.ByWeek[fmt.Sprintf("%04d-W%02d", year, week)]++
		result.ByMonth[e.Date[:7]]++
		result.ByWeekday[schedule.DayOf(day)]++
		if s, ok := byID[e.StudentID]; ok {
			result.BySchool[s.School]++
			result.ByGrade[fmt.Sprintf("%d", s.Grade)]++
		}
	}

	if deps.MidstigStore != nil {
		headcounts, err := deps.MidstigStore.ListByDateRange(ctx, input.CenterID, input.StartDate, input.EndDate)
		if err != nil {
			return StatisticsResult{}, err
		}
		for _, h := range headcounts {
			result.Total += h.Total()
			result.ByDay[h.Date] += h.Total()
			result.BySchool[h.School] += h.Total()
			result.ByGrade["5"] += h.Grade5
			result.ByGrade["6"] += h.Grade6
			result.ByGrade["7"] += h.Grade7
		}
	}

	return result, nil
}
