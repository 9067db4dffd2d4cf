package model

import "time"

// BacklogMilestoneName is the holding milestone for unscheduled work. It
// is never scored during the Building stage.
const BacklogMilestoneName = "Backlog"

type Milestone struct {
	ID                  int         `json:"id"`
	ProjectID           int         `json:"project_id"`
	Name                string      `json:"name"`
	Status              IssueStatus `json:"status"`
	PhaseOrder          int         `json:"phase_order"`
	PlannedStartDate    *time.Time  `json:"planned_start_date,omitempty"`
	PlannedEndDate      *time.Time  `json:"planned_end_date,omitempty"`
	ActualStartDate     *time.Time  `json:"actual_start_date,omitempty"`
	ActualEndDate       *time.Time  `json:"actual_end_date,omitempty"`
	Progress            int         `json:"progress"`
	StoryPoint          int         `json:"story_point"`
	CompletedStoryPoint int         `json:"completed_story_point"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}
