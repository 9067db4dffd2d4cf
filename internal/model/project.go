package model

import "time"

type ProjectStatus string

const (
	ProjectCreated   ProjectStatus = "created"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCanceled  ProjectStatus = "canceled"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectCreated, ProjectCompleted, ProjectCanceled:
		return true
	}
	return false
}

// Stage is the derived lifecycle phase of a project. It is computed from
// the project status, the development-plan issue and milestone story
// points; it is never stored.
type Stage string

const (
	StagePlanning Stage = "Planning"
	StageBuilding Stage = "Building"
	StageQA       Stage = "QA"
	StageDone     Stage = "Done"
)

type Project struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	Progress  int           `json:"progress"`
	DueDate   *time.Time    `json:"due_date,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
