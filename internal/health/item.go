package health

import (
	"math"
	"time"

	"projectpulse/internal/model"
)

// ScheduleItem is the engine's view of one schedulable record. Issues and
// milestones both reduce to this shape; the planned/actual dates may be
// absent on early-stage items, which is a valid state and never an error.
type ScheduleItem struct {
	Name             string
	Status           model.IssueStatus
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	ActualStartDate  *time.Time
	ActualEndDate    *time.Time
	Progress         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func issueItem(is model.Issue) ScheduleItem {
	return ScheduleItem{
		Name:             is.Name,
		Status:           is.Status,
		PlannedStartDate: is.PlannedStartDate,
		PlannedEndDate:   is.PlannedEndDate,
		ActualStartDate:  is.ActualStartDate,
		ActualEndDate:    is.ActualEndDate,
		Progress:         is.Progress,
		CreatedAt:        is.CreatedAt,
		UpdatedAt:        is.UpdatedAt,
	}
}

func milestoneItem(m model.Milestone) ScheduleItem {
	return ScheduleItem{
		Name:             m.Name,
		Status:           m.Status,
		PlannedStartDate: m.PlannedStartDate,
		PlannedEndDate:   m.PlannedEndDate,
		ActualStartDate:  m.ActualStartDate,
		ActualEndDate:    m.ActualEndDate,
		Progress:         m.Progress,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// wholeDays returns a−b floored to whole days.
func wholeDays(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ComputeItemMetrics scores one schedulable item against an injected "now".
// It is a pure function: identical inputs and an identical now produce an
// identical result. The consumed-time window starts at the actual start
// when known, falling back to the planned start and then creation time.
// totalTime is never below one day so percentage math has a denominator.
func ComputeItemMetrics(it ScheduleItem, now time.Time) model.Metrics {
	windowStart := it.CreatedAt
	if it.ActualStartDate != nil {
		windowStart = *it.ActualStartDate
	} else if it.PlannedStartDate != nil {
		windowStart = *it.PlannedStartDate
	}

	totalTime := 1
	if it.PlannedEndDate != nil {
		totalTime = maxInt(1, wholeDays(*it.PlannedEndDate, windowStart))
	}

	var pastTime int
	if it.Status == model.IssueCompleted {
		end := it.UpdatedAt
		if it.ActualEndDate != nil {
			end = *it.ActualEndDate
		}
		start := it.CreatedAt
		if it.PlannedStartDate != nil {
			start = *it.PlannedStartDate
		}
		pastTime = maxInt(0, wholeDays(end, start))
	} else {
		pastTime = maxInt(0, wholeDays(now, windowStart))
	}

	pct := pastTime * 100 / totalTime

	risk := computeRisk(it.Progress, pct)
	if it.Status == model.IssueCompleted {
		risk = 0
	}

	return model.Metrics{
		TotalTime:          totalTime,
		PastTime:           pastTime,
		PastTimePercentage: pct,
		Progress:           it.Progress,
		Velocity:           velocity(it.Progress, pct),
		RiskScore:          risk,
	}
}

// computeRisk estimates schedule risk from progress made versus time
// consumed, quantized to two decimals and clamped to [0,1]. Items that
// consumed time without any progress take a 1.2x penalty on the consumed
// percentage; items that consumed no time yet carry no risk.
func computeRisk(progress, pastPct int) float64 {
	var score float64
	switch {
	case progress > 0 && pastPct > 0:
		score = math.Floor((1-float64(progress)/float64(pastPct))*100) / 100
	case pastPct == 0:
		return 0
	default:
		score = math.Ceil(float64(pastPct)*1.2) / 100
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// velocity is progress relative to time consumed as an uncapped integer
// percentage. 100 means exactly on pace. A zero consumed percentage is
// substituted with one to avoid dividing by zero.
func velocity(progress, pastPct int) int {
	if pastPct == 0 {
		pastPct = 1
	}
	return progress * 100 / pastPct
}
