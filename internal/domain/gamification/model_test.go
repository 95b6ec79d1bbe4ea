package gamification_test

import (
	"testing"

	"fjorlistinn/internal/domain/gamification"
)

// TestTitleFor tests the inclusive tier table.
func TestTitleFor(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "Nýliði"}, // zero maps to the lowest tier by convention
		{1, "Nýliði"},
		{4, "Nýliði"},
		{5, "Fjörgæðingur"},
		{9, "Fjörgæðingur"},
		{10, "Fjörvinur"},
		{24, "Fjörvinur"},
		{25, "Fjörstjarna"},
		{49, "Fjörstjarna"},
		{50, "Fjörhetja"},
		{99, "Fjörhetja"},
		{100, "Fjörmeistari"},
		{2500, "Fjörmeistari"},
	}
	for _, tt := range tests {
		if got := gamification.TitleFor(tt.count); got != tt.want {
			t.Errorf("TitleFor(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

// TestTitles_PartitionNonNegativeCounts verifies the tiers have no gaps.
func TestTitles_PartitionNonNegativeCounts(t *testing.T) {
	prev := -1
	for _, tier := range gamification.Titles {
		if tier.Min != prev+1 {
			t.Errorf("tier %q starts at %d, expected %d", tier.Name, tier.Min, prev+1)
		}
		if tier.Max < tier.Min {
			t.Errorf("tier %q has max %d below min %d", tier.Name, tier.Max, tier.Min)
		}
		prev = tier.Max
	}
}

// TestIsMilestone tests the fixed milestone set.
func TestIsMilestone(t *testing.T) {
	for _, n := range []int{1, 10, 25, 50, 75, 100} {
		if !gamification.IsMilestone(n) {
			t.Errorf("expected %d to be a milestone", n)
		}
		if gamification.MilestoneMessage(n) == "" {
			t.Errorf("milestone %d has no message", n)
		}
	}
	for _, n := range []int{0, 2, 9, 11, 26, 99, 101} {
		if gamification.IsMilestone(n) {
			t.Errorf("did not expect %d to be a milestone", n)
		}
	}
}

// TestStatusBucket tests the bucket boundaries: each boundary value
// belongs to the lower bucket.
func TestStatusBucket(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, gamification.StatusActive},
		{7, gamification.StatusActive},
		{8, gamification.StatusFading},
		{14, gamification.StatusFading},
		{15, gamification.StatusRecentlyStopped},
		{30, gamification.StatusRecentlyStopped},
		{31, gamification.StatusStopped},
		{60, gamification.StatusStopped},
		{61, gamification.StatusInactive},
		{400, gamification.StatusInactive},
	}
	for _, tt := range tests {
		if got := gamification.StatusBucket(tt.days); got != tt.want {
			t.Errorf("StatusBucket(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

// TestStreakWeeks tests trailing-run ISO week streak counting.
func TestStreakWeeks(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{
			name:  "no dates",
			dates: nil,
			want:  0,
		},
		{
			name:  "single week",
			dates: []string{"2026-01-01"},
			want:  1,
		},
		{
			// ISO weeks 1, 2, 3 of 2026
			name:  "three consecutive weeks",
			dates: []string{"2025-12-30", "2026-01-07", "2026-01-14"},
			want:  3,
		},
		{
			// Weeks 1 and 3: the gap at week 2 limits the streak to the trailing run
			name:  "gap week breaks the streak",
			dates: []string{"2025-12-30", "2026-01-14"},
			want:  1,
		},
		{
			name:  "multiple entries in one week count once",
			dates: []string{"2026-01-12", "2026-01-14", "2026-01-16"},
			want:  1,
		},
		{
			// Week spanning a year boundary: 2025-12-29 (Mon) and 2026-01-02 (Fri) are ISO week 1 of 2026
			name:  "year boundary",
			dates: []string{"2025-12-22", "2025-12-29", "2026-01-05"},
			want:  3,
		},
		{
			name:  "unparseable dates ignored",
			dates: []string{"bogus", "2026-01-14"},
			want:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gamification.StreakWeeks(tt.dates); got != tt.want {
				t.Errorf("StreakWeeks(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}
