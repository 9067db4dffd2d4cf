// Package health computes project health and risk snapshots: a pure walk of
// the project hierarchy (project, milestones, issues) producing schedule
// risk, time consumption and velocity numbers plus natural-language
// insights for dashboards and rollup cards. Nothing in this package reads a
// clock, touches storage or keeps state; callers inject "now".
package health

import (
	"fmt"
	"math"
	"time"

	"projectpulse/internal/model"
)

// Engine scores projects against a fixed tier policy.
type Engine struct {
	tiers RiskTiers
}

// NewEngine returns an engine using the given tier policy, falling back to
// the default partition when the policy is invalid.
func NewEngine(tiers RiskTiers) *Engine {
	if !tiers.Valid() {
		tiers = DefaultRiskTiers()
	}
	return &Engine{tiers: tiers}
}

// Tiers returns the tier policy the engine scores with.
func (e *Engine) Tiers() RiskTiers { return e.tiers }

// ComputeSnapshot produces the full health snapshot for one project.
// Callers must pass the issues and milestones belonging to that project;
// no cross-referential validation happens here. The result is a pure
// function of the arguments: two calls with identical inputs and an
// identical now yield byte-identical output.
func (e *Engine) ComputeSnapshot(p model.Project, issues []model.Issue, milestones []model.Milestone, now time.Time) model.Snapshot {
	stage := ClassifyStage(p, issues, milestones)
	agg := aggregate(stage, issues, milestones, e.tiers, now)

	totalTime := 1
	if p.DueDate != nil {
		totalTime = maxInt(1, wholeDays(*p.DueDate, p.CreatedAt))
	}
	pastTime := maxInt(0, wholeDays(now, p.CreatedAt))
	pastPct := pastTime * 100 / totalTime

	devVelocity := 0
	if pastPct > 0 && p.Progress > 0 {
		devVelocity = p.Progress * 100 / pastPct
	}

	div := devVelocity
	if div == 0 {
		div = 1
	}
	predicted := p.CreatedAt.AddDate(0, 0, int(math.Ceil(float64(totalTime)/float64(div)*100)))

	return model.Snapshot{
		Overall: model.SnapshotEntry{
			Name:  p.Name,
			Stage: string(stage),
			Metrics: model.Metrics{
				TotalTime:          totalTime,
				PastTime:           pastTime,
				PastTimePercentage: pastPct,
				Progress:           p.Progress,
				Velocity:           devVelocity,
				RiskScore:          agg.ProjectRiskScore,
				PredictedDueDate:   predicted.Format(dateLayout),
			},
			Insights: e.overallInsights(p, stage, agg, pastPct, predicted),
		},
		Planning: agg.Planning,
		Building: agg.Building,
	}
}

// overallInsights builds the project-level insight list: the stage and risk
// headline, planner/builder warning lines when high-risk buckets are
// non-empty, and the delivery-date comparison line.
func (e *Engine) overallInsights(p model.Project, stage model.Stage, agg aggregation, pastPct int, predicted time.Time) []string {
	insights := []string{fmt.Sprintf(
		"Project is currently in %s phase, with %s risk score of %d%%",
		stage, e.tiers.Label(agg.ProjectRiskScore), riskPct(agg.ProjectRiskScore),
	)}

	if line, ok := riskLine("Planner", agg.HighRisk[phasePlanning], agg.MediumRisk[phasePlanning]); ok {
		insights = append(insights, line)
	}
	if line, ok := riskLine("Builder", agg.HighRisk[phaseBuilding], agg.MediumRisk[phaseBuilding]); ok {
		insights = append(insights, line)
	}

	switch {
	case stage == model.StagePlanning:
		insights = append(insights, "Predicted delivery date is not available yet, complete the development plan to see a delivery estimate")
	case p.Progress == 0:
		// zero progress wins over any time comparison
		due := "not set"
		if p.DueDate != nil {
			due = p.DueDate.Format(dateLayout)
		}
		insights = append(insights, fmt.Sprintf("Dev work has not started yet. Initial due date is set as %s", due))
	case p.DueDate == nil:
		insights = append(insights, fmt.Sprintf("Predicted delivery date is %s", predicted.Format(dateLayout)))
	default:
		diff := wholeDays(predicted, *p.DueDate)
		word := "earlier"
		if diff > 0 {
			word = "later"
		}
		insights = append(insights, fmt.Sprintf(
			"Predicted delivery date is %d days %s than initial due date of %s",
			absInt(diff), word, p.DueDate.Format(dateLayout),
		))
	}

	return insights
}

// riskLine renders the "<actor> has found ..." warning for one phase. The
// line only exists when the high-risk bucket is non-empty; the medium
// clause tags along when there is one.
func riskLine(actor string, high, medium []riskItem) (string, bool) {
	if len(high) == 0 {
		return "", false
	}
	line := fmt.Sprintf("%s has found %d High risk items: %s", actor, len(high), joinRiskItems(high))
	if len(medium) > 0 {
		line += fmt.Sprintf(", and %d Medium risk items: %s", len(medium), joinRiskItems(medium))
	}
	return line, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
