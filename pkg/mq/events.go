package mq

import "time"

// Routing keys on the events exchange.
const (
	RoutingKeyProjectUpdated = "project.updated"
	RoutingKeyHealthComputed = "project.health.computed"
)

// ProjectUpdatedPayload announces that a project or anything under it
// (issues, milestones) changed. Consumers drop cached snapshots for it.
type ProjectUpdatedPayload struct {
	ProjectID int       `json:"project_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthComputedPayload announces a freshly computed health snapshot, for
// rollup dashboards and audit trails.
type HealthComputedPayload struct {
	ProjectID  int       `json:"project_id"`
	Stage      string    `json:"stage"`
	RiskScore  float64   `json:"risk_score"`
	ComputedAt time.Time `json:"computed_at"`
}
