package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"projectpulse/internal/model"
)

func planIssue(status model.IssueStatus) model.Issue {
	return model.Issue{
		ID:        1,
		Name:      "Development plan",
		Role:      model.RoleDevelopmentPlan,
		Status:    status,
		CreatedAt: date(2025, 1, 1),
		UpdatedAt: date(2025, 1, 2),
	}
}

func TestClassifyStage(t *testing.T) {
	project := model.Project{ID: 1, Name: "Atlas", Status: model.ProjectCreated, CreatedAt: date(2025, 1, 1)}
	doneProject := project
	doneProject.Status = model.ProjectCompleted

	tests := []struct {
		name       string
		project    model.Project
		issues     []model.Issue
		milestones []model.Milestone
		want       model.Stage
	}{
		{
			name:    "completed project is Done regardless of issues",
			project: doneProject,
			issues:  []model.Issue{planIssue(model.IssueStarted)},
			want:    model.StageDone,
		},
		{
			name:    "no development plan defaults to Planning",
			project: project,
			issues:  []model.Issue{{Name: "Some issue", Role: model.RoleNone, Status: model.IssueStarted}},
			want:    model.StagePlanning,
		},
		{
			name:    "plan in progress keeps Planning",
			project: project,
			issues:  []model.Issue{planIssue(model.IssueStarted)},
			want:    model.StagePlanning,
		},
		{
			name:    "plan created keeps Planning",
			project: project,
			issues:  []model.Issue{planIssue(model.IssueCreated)},
			want:    model.StagePlanning,
		},
		{
			name:    "plan completed with remaining story points is Building",
			project: project,
			issues:  []model.Issue{planIssue(model.IssueCompleted)},
			milestones: []model.Milestone{
				{Name: "M1", StoryPoint: 20, CompletedStoryPoint: 20},
				{Name: "M2", StoryPoint: 10, CompletedStoryPoint: 4},
			},
			want: model.StageBuilding,
		},
		{
			name:       "plan completed with all story points burned is QA",
			project:    project,
			issues:     []model.Issue{planIssue(model.IssueCompleted)},
			milestones: []model.Milestone{{Name: "M1", StoryPoint: 20, CompletedStoryPoint: 20}},
			want:       model.StageQA,
		},
		{
			name:       "plan completed with no milestones is QA",
			project:    project,
			issues:     []model.Issue{planIssue(model.IssueCompleted)},
			milestones: nil,
			want:       model.StageQA,
		},
		{
			name:    "plan in an unexpected status defaults to Planning",
			project: project,
			issues:  []model.Issue{planIssue(model.IssueOverwritten)},
			want:    model.StagePlanning,
		},
		{
			name:    "no issues at all defaults to Planning",
			project: project,
			want:    model.StagePlanning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStage(tt.project, tt.issues, tt.milestones)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyStage_IgnoresNonPlanIssues(t *testing.T) {
	project := model.Project{ID: 1, Name: "Atlas", Status: model.ProjectCreated}
	issues := []model.Issue{
		{Name: "Completed chore", Role: model.RoleNone, Status: model.IssueCompleted},
		planIssue(model.IssueStarted),
	}
	assert.Equal(t, model.StagePlanning, ClassifyStage(project, issues, nil))
}
