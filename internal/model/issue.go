package model

import "time"

type IssueStatus string

const (
	IssueCreated     IssueStatus = "created"
	IssueStarted     IssueStatus = "started"
	IssueInReview    IssueStatus = "in_review"
	IssueApproved    IssueStatus = "approved"
	IssueCompleted   IssueStatus = "completed"
	IssueCanceled    IssueStatus = "canceled"
	IssueOverwritten IssueStatus = "overwritten"
	IssueGenerating  IssueStatus = "generating"
)

func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueCreated, IssueStarted, IssueInReview, IssueApproved,
		IssueCompleted, IssueCanceled, IssueOverwritten, IssueGenerating:
		return true
	}
	return false
}

// IssueRole tags issues that carry special meaning for stage
// classification. The development-plan issue gates the Planning to
// Building transition.
type IssueRole string

const (
	RoleNone            IssueRole = "none"
	RoleDevelopmentPlan IssueRole = "development_plan"
)

type Issue struct {
	ID               int         `json:"id"`
	ProjectID        int         `json:"project_id"`
	Name             string      `json:"name"`
	Role             IssueRole   `json:"role"`
	Status           IssueStatus `json:"status"`
	PlannedStartDate *time.Time  `json:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time  `json:"planned_end_date,omitempty"`
	ActualStartDate  *time.Time  `json:"actual_start_date,omitempty"`
	ActualEndDate    *time.Time  `json:"actual_end_date,omitempty"`
	Progress         int         `json:"progress"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
