package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectpulse/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestComputeItemMetrics_OnPaceItemHasZeroRisk(t *testing.T) {
	// 10 day window, halfway through, 50% done.
	item := ScheduleItem{
		Name:             "API skeleton",
		Status:           model.IssueStarted,
		PlannedStartDate: datePtr(2025, 3, 1),
		PlannedEndDate:   datePtr(2025, 3, 11),
		Progress:         50,
		CreatedAt:        date(2025, 2, 20),
		UpdatedAt:        date(2025, 3, 5),
	}
	met := ComputeItemMetrics(item, date(2025, 3, 6))

	assert.Equal(t, 10, met.TotalTime)
	assert.Equal(t, 5, met.PastTime)
	assert.Equal(t, 50, met.PastTimePercentage)
	assert.Equal(t, 0.0, met.RiskScore)
	assert.Equal(t, 100, met.Velocity)
}

func TestComputeItemMetrics_ZeroProgressPenalty(t *testing.T) {
	// 40% of the window burned with nothing to show: 40 * 1.2 = 48.
	item := ScheduleItem{
		Name:             "Payment flow",
		Status:           model.IssueStarted,
		PlannedStartDate: datePtr(2025, 3, 1),
		PlannedEndDate:   datePtr(2025, 3, 11),
		Progress:         0,
		CreatedAt:        date(2025, 2, 20),
		UpdatedAt:        date(2025, 3, 5),
	}
	met := ComputeItemMetrics(item, date(2025, 3, 5))

	assert.Equal(t, 40, met.PastTimePercentage)
	assert.Equal(t, 0.48, met.RiskScore)
}

func TestComputeItemMetrics_NoTimeConsumedNoRisk(t *testing.T) {
	item := ScheduleItem{
		Name:             "Landing page",
		Status:           model.IssueStarted,
		PlannedStartDate: datePtr(2025, 3, 1),
		PlannedEndDate:   datePtr(2025, 3, 11),
		Progress:         20,
		CreatedAt:        date(2025, 2, 20),
		UpdatedAt:        date(2025, 3, 1),
	}
	// now == window start, nothing consumed yet
	met := ComputeItemMetrics(item, date(2025, 3, 1))

	assert.Equal(t, 0, met.PastTimePercentage)
	assert.Equal(t, 0.0, met.RiskScore)
}

func TestComputeItemMetrics_CompletedForcesZeroRisk(t *testing.T) {
	// Finished long after the planned window; risk is still zero once done.
	item := ScheduleItem{
		Name:             "Migration",
		Status:           model.IssueCompleted,
		PlannedStartDate: datePtr(2025, 1, 1),
		PlannedEndDate:   datePtr(2025, 1, 5),
		ActualEndDate:    datePtr(2025, 2, 1),
		Progress:         100,
		CreatedAt:        date(2024, 12, 20),
		UpdatedAt:        date(2025, 2, 1),
	}
	met := ComputeItemMetrics(item, date(2025, 3, 1))

	assert.Equal(t, 0.0, met.RiskScore)
	// past time measured from planned start to actual end for finished items
	assert.Equal(t, 31, met.PastTime)
}

func TestComputeItemMetrics_CompletedFallsBackToUpdatedAt(t *testing.T) {
	item := ScheduleItem{
		Name:      "Spike",
		Status:    model.IssueCompleted,
		Progress:  100,
		CreatedAt: date(2025, 3, 1),
		UpdatedAt: date(2025, 3, 4),
	}
	met := ComputeItemMetrics(item, date(2025, 6, 1))

	assert.Equal(t, 1, met.TotalTime) // no planned end at all
	assert.Equal(t, 3, met.PastTime)  // updated_at - created_at
	assert.Equal(t, 0.0, met.RiskScore)
}

func TestComputeItemMetrics_ActualStartWinsOverPlanned(t *testing.T) {
	item := ScheduleItem{
		Name:             "Search index",
		Status:           model.IssueStarted,
		PlannedStartDate: datePtr(2025, 3, 1),
		ActualStartDate:  datePtr(2025, 3, 4),
		PlannedEndDate:   datePtr(2025, 3, 14),
		Progress:         10,
		CreatedAt:        date(2025, 2, 20),
		UpdatedAt:        date(2025, 3, 5),
	}
	met := ComputeItemMetrics(item, date(2025, 3, 9))

	assert.Equal(t, 10, met.TotalTime) // window measured from actual start
	assert.Equal(t, 5, met.PastTime)
}

func TestComputeItemMetrics_MissingDatesNeverNegative(t *testing.T) {
	// Planned end before the window start collapses to the 1-day floor;
	// now before the window start collapses past time to zero.
	item := ScheduleItem{
		Name:             "Backfill",
		Status:           model.IssueCreated,
		PlannedStartDate: datePtr(2025, 3, 10),
		PlannedEndDate:   datePtr(2025, 3, 5),
		Progress:         0,
		CreatedAt:        date(2025, 3, 1),
		UpdatedAt:        date(2025, 3, 1),
	}
	met := ComputeItemMetrics(item, date(2025, 3, 2))

	assert.Equal(t, 1, met.TotalTime)
	assert.Equal(t, 0, met.PastTime)
	assert.Equal(t, 0.0, met.RiskScore)
}

func TestComputeRisk_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		pastPct  int
		want     float64
	}{
		{"way behind clamps to 1", 1, 500, 1},
		{"ahead of schedule clamps to 0", 90, 10, 0},
		{"zero progress penalty clamps to 1", 0, 95, 1},
		{"typical lag", 30, 60, 0.5},
		{"no time consumed", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeRisk(tt.progress, tt.pastPct)
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 1.0)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVelocity_Uncapped(t *testing.T) {
	assert.Equal(t, 200, velocity(50, 25))
	assert.Equal(t, 0, velocity(0, 40))
	// zero consumed time substitutes 1 instead of dividing by zero
	assert.Equal(t, 3000, velocity(30, 0))
}
