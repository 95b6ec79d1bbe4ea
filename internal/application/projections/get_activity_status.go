package projections

import (
	"context"
	"time"

	studentStore "fjorlistinn/internal/adapters/storage/student"
	"fjorlistinn/internal/domain/gamification"
	"fjorlistinn/internal/domain/student"
)

// ActivityLedgerStore defines the ledger store interface for activity reads.
type ActivityLedgerStore interface {
	LastDateByStudentID(ctx context.Context, studentID string) (string, error)
}

// ActivityStudentStore defines the student store interface for activity reads.
type ActivityStudentStore interface {
	List(ctx context.Context, filter studentStore.ListFilter) ([]student.Student, error)
}

// ActivityStudent is one student's row in the activity breakdown.
type ActivityStudent struct {
	StudentID     string
	Name          string
	School        string
	Grade         int
	LastDate      string // "" when never attended
	DaysSinceLast int    // -1 when never attended
}

// ActivityStatusResult groups a center's active students by how recently
// they last attended.
type ActivityStatusResult struct {
	Counts   map[string]int               // bucket -> student count
	BySchool map[string]map[string]int    // school -> bucket -> count
	Students map[string][]ActivityStudent // bucket -> students
}

// ActivityStatusDeps holds dependencies for QueryActivityStatus.
type ActivityStatusDeps struct {
	StudentStore ActivityStudentStore
	LedgerStore  ActivityLedgerStore
	Now          func() time.Time
}

// QueryActivityStatus buckets a center's active students by days since
// their last check-in. Students who have never attended count as inactive.
// Boundary days (7, 14, 30, 60) belong to the lower bucket.
// PRE: centerID is non-empty
// POST: Every active student appears in exactly one bucket
func QueryActivityStatus(ctx context.Context, centerID string, deps ActivityStatusDeps) (ActivityStatusResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	today := now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	students, err := deps.StudentStore.List(ctx, studentStore.ListFilter{CenterID: centerID, ActiveOnly: true})
	if err != nil {
		return ActivityStatusResult{}, err
	}

	result := ActivityStatusResult{
		Counts:   map[string]int{},
		BySchool: map[string]map[string]int{},
		Students: map[string][]ActivityStudent{},
	}
	for _, bucket := range gamification.StatusBuckets {
		result.Counts[bucket] = 0
	}

	for _, s := range students {
		if s.IsMidstig() {
			continue // no individual ledger rows to bucket
		}
		last, err := deps.LedgerStore.LastDateByStudentID(ctx, s.ID)
		if err != nil {
			return ActivityStatusResult{}, err
		}

		row := ActivityStudent{
			StudentID:     s.ID,
			Name:          s.Name,
			School:        s.School,
			Grade:         s.Grade,
			LastDate:      last,
			DaysSinceLast: -1,
		}
		bucket := gamification.StatusInactive
		if last != "" {
			if lastDay, err := time.Parse("2006-01-02", last); err == nil {
				days := int(midnight.Sub(lastDay).Hours() / 24)
				if days < 0 {
					days = 0
				}
				row.DaysSinceLast = days
				bucket = gamification.StatusBucket(days)
			}
		}

		result.Counts[bucket]++
		result.Students[bucket] = append(result.Students[bucket], row)
		if result.BySchool[s.School] == nil {
			result.BySchool[s.School] = map[string]int{}
		}
		result.BySchool[s.School][bucket]++
	}

	return result, nil
}
