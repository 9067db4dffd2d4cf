package health

import "projectpulse/internal/model"

// ClassifyStage derives the lifecycle stage of a project. Rules apply in
// order, first match wins:
//
//  1. a completed project is Done regardless of its issues;
//  2. a development-plan issue still being written (created/started) keeps
//     the project in Planning;
//  3. a completed development plan moves the project to Building while
//     milestone story points remain, then QA;
//  4. everything else, including the absence of a development-plan issue,
//     is Planning. An early-stage project without a plan is a valid state,
//     not an error.
func ClassifyStage(p model.Project, issues []model.Issue, milestones []model.Milestone) model.Stage {
	if p.Status == model.ProjectCompleted {
		return model.StageDone
	}

	var plan *model.Issue
	for i := range issues {
		if issues[i].Role == model.RoleDevelopmentPlan {
			plan = &issues[i]
			break
		}
	}
	if plan == nil {
		return model.StagePlanning
	}

	switch plan.Status {
	case model.IssueCreated, model.IssueStarted:
		return model.StagePlanning
	case model.IssueCompleted:
		var total, completed int
		for _, m := range milestones {
			total += m.StoryPoint
			completed += m.CompletedStoryPoint
		}
		if total > completed {
			return model.StageBuilding
		}
		return model.StageQA
	default:
		return model.StagePlanning
	}
}
