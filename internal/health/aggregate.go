package health

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"projectpulse/internal/model"
)

const (
	phasePlanning = "planning"
	phaseBuilding = "building"
)

const dateLayout = "2006-01-02"

// riskItem is one bucketed entry: the item name and its risk percentage,
// used to render the planner/builder warning lines.
type riskItem struct {
	Name string
	Pct  int
}

// aggregation collects the per-phase snapshot entries plus the two risk
// bucket lists and the running project-wide maximum risk score. The
// per-item reductions are max and append, so processing order only affects
// list order, which follows input order (issues) and phase order
// (milestones).
type aggregation struct {
	Planning         []model.SnapshotEntry
	Building         []model.SnapshotEntry
	ProjectRiskScore float64
	HighRisk         map[string][]riskItem
	MediumRisk       map[string][]riskItem
}

// riskPct renders a risk score as an integer percentage. Scores are
// quantized to two decimals by computeRisk so this is exact.
func riskPct(score float64) int {
	return int(math.Round(score * 100))
}

func (a *aggregation) observe(phase, name string, score float64, tiers RiskTiers) {
	if score > a.ProjectRiskScore {
		a.ProjectRiskScore = score
	}
	switch {
	case tiers.IsHigh(score):
		a.HighRisk[phase] = append(a.HighRisk[phase], riskItem{Name: name, Pct: riskPct(score)})
	case tiers.IsMedium(score):
		a.MediumRisk[phase] = append(a.MediumRisk[phase], riskItem{Name: name, Pct: riskPct(score)})
	}
}

// aggregate runs the planning pass over all non-canceled issues and, in the
// Building stage, the building pass over active milestones.
func aggregate(stage model.Stage, issues []model.Issue, milestones []model.Milestone, tiers RiskTiers, now time.Time) aggregation {
	agg := aggregation{
		Planning:   []model.SnapshotEntry{},
		Building:   []model.SnapshotEntry{},
		HighRisk:   map[string][]riskItem{},
		MediumRisk: map[string][]riskItem{},
	}

	for _, is := range issues {
		if is.Status == model.IssueCanceled {
			continue
		}
		met := ComputeItemMetrics(issueItem(is), now)
		if is.PlannedEndDate != nil {
			met.PlannedEndDate = is.PlannedEndDate.Format(dateLayout)
		}
		agg.Planning = append(agg.Planning, model.SnapshotEntry{
			Name:     is.Name,
			Stage:    string(is.Status),
			Metrics:  met,
			Insights: []string{fmt.Sprintf("%s is at %s stage", is.Name, is.Status)},
		})
		agg.observe(phasePlanning, is.Name, met.RiskScore, tiers)
	}

	if stage != model.StageBuilding {
		return agg
	}

	for _, m := range activeMilestones(milestones) {
		met := ComputeItemMetrics(milestoneItem(m), now)
		if m.PlannedEndDate != nil {
			met.PlannedEndDate = m.PlannedEndDate.Format(dateLayout)
		}
		agg.Building = append(agg.Building, model.SnapshotEntry{
			Name:     m.Name,
			Stage:    string(m.Status),
			Metrics:  met,
			Insights: milestoneInsights(m.Name, met, tiers),
		})
		agg.observe(phaseBuilding, m.Name, met.RiskScore, tiers)
	}

	return agg
}

// activeMilestones drops canceled milestones and the Backlog holding
// milestone, then orders the rest by phase.
func activeMilestones(milestones []model.Milestone) []model.Milestone {
	active := make([]model.Milestone, 0, len(milestones))
	for _, m := range milestones {
		if m.Status == model.IssueCanceled || m.Name == model.BacklogMilestoneName {
			continue
		}
		active = append(active, m)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].PhaseOrder < active[j].PhaseOrder
	})
	return active
}

// milestoneInsights renders the building-pass insight lines for one
// milestone, worded by risk tier.
func milestoneInsights(name string, met model.Metrics, tiers RiskTiers) []string {
	pct := riskPct(met.RiskScore)
	switch {
	case tiers.IsHigh(met.RiskScore):
		return []string{
			fmt.Sprintf("%s has High risk score of %d%%", name, pct),
			fmt.Sprintf("Development velocity is very low at %d%% of expected velocity", met.Velocity),
		}
	case tiers.IsMedium(met.RiskScore):
		return []string{
			fmt.Sprintf("%s has Medium risk score of %d%%", name, pct),
			fmt.Sprintf("Development velocity is low at %d%% of expected velocity", met.Velocity),
		}
	default:
		lines := []string{fmt.Sprintf("%s has low risk score of %d%%", name, pct)}
		if met.Progress > 0 {
			word := "low"
			if met.Velocity >= 100 {
				word = "high"
			}
			lines = append(lines, fmt.Sprintf("Development velocity is %s at %d%% of expected velocity", word, met.Velocity))
		} else {
			lines = append(lines, "Development work has not started yet")
		}
		return lines
	}
}

func joinRiskItems(items []riskItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%d%%)", it.Name, it.Pct))
	}
	return strings.Join(parts, ", ")
}
