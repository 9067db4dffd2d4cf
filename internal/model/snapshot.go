package model

// Snapshot is the full health picture of one project: the overall entry
// plus per-item entries for the planning and building phases. Planning
// and Building are always present in the JSON form, empty when the phase
// has nothing to show.
type Snapshot struct {
	Overall  SnapshotEntry   `json:"overall"`
	Planning []SnapshotEntry `json:"planning"`
	Building []SnapshotEntry `json:"building"`
}

// SnapshotEntry scores one scorable thing. For the overall entry Stage is
// the project lifecycle phase; for planning and building entries it is
// the item's own status.
type SnapshotEntry struct {
	Name     string   `json:"name"`
	Stage    string   `json:"stage"`
	Metrics  Metrics  `json:"metrics"`
	Insights []string `json:"insights"`
}

// Metrics holds the numbers behind one snapshot entry. Times are whole
// days. PredictedDueDate is only set on the overall entry, PlannedEndDate
// only on item entries; both use the 2006-01-02 layout.
type Metrics struct {
	TotalTime          int     `json:"totalTime"`
	PastTime           int     `json:"pastTime"`
	PastTimePercentage int     `json:"pastTimePercentage"`
	Progress           int     `json:"progress"`
	Velocity           int     `json:"velocity"`
	RiskScore          float64 `json:"riskScore"`
	PredictedDueDate   string  `json:"predictedDueDate,omitempty"`
	PlannedEndDate     string  `json:"plannedEndDate,omitempty"`
}
