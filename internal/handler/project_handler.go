package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"projectpulse/internal/model"
	"projectpulse/internal/repository"
	"projectpulse/pkg/mq"
)

// Publisher emits change events so cached snapshots get invalidated.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type ProjectHandler struct {
	projects   *repository.ProjectRepository
	issues     *repository.IssueRepository
	milestones *repository.MilestoneRepository
	publisher  Publisher
	logger     *zap.Logger
}

func NewProjectHandler(
	projects *repository.ProjectRepository,
	issues *repository.IssueRepository,
	milestones *repository.MilestoneRepository,
	publisher Publisher,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		issues:     issues,
		milestones: milestones,
		publisher:  publisher,
		logger:     logger,
	}
}

func (h *ProjectHandler) notifyUpdated(ctx context.Context, projectID int) {
	if h.publisher == nil {
		return
	}
	payload := mq.ProjectUpdatedPayload{ProjectID: projectID, UpdatedAt: time.Now().UTC()}
	if err := h.publisher.Publish(mq.RoutingKeyProjectUpdated, payload); err != nil {
		h.logger.Warn("Failed to publish project updated event",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
	}
}

func (h *ProjectHandler) projectID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return 0, false
	}
	return id, true
}

type createProjectRequest struct {
	Name    string     `json:"name" binding:"required"`
	DueDate *time.Time `json:"due_date"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := model.Project{
		Name:    req.Name,
		Status:  model.ProjectCreated,
		DueDate: req.DueDate,
	}
	if _, err := h.projects.Insert(c.Request.Context(), &project); err != nil {
		h.logger.Error("CreateProject: insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	project, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("GetProject: lookup failed", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

type updateProgressRequest struct {
	Progress int `json:"progress" binding:"min=0,max=100"`
}

func (h *ProjectHandler) UpdateProjectProgress(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projects.UpdateProgress(c.Request.Context(), id, req.Progress); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progress"})
		return
	}

	h.notifyUpdated(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updateProjectStatusRequest struct {
	Status model.ProjectStatus `json:"status" binding:"required"`
}

func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var req updateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.projects.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}

	h.notifyUpdated(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createIssueRequest struct {
	Name             string          `json:"name" binding:"required"`
	Role             model.IssueRole `json:"role"`
	PlannedStartDate *time.Time      `json:"planned_start_date"`
	PlannedEndDate   *time.Time      `json:"planned_end_date"`
}

func (h *ProjectHandler) CreateIssue(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = model.RoleNone
	}

	issue := model.Issue{
		ProjectID:        projectID,
		Name:             req.Name,
		Role:             req.Role,
		Status:           model.IssueCreated,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
	}
	if _, err := h.issues.Insert(c.Request.Context(), &issue); err != nil {
		h.logger.Error("CreateIssue: insert failed", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create issue"})
		return
	}

	h.notifyUpdated(c.Request.Context(), projectID)
	c.JSON(http.StatusCreated, issue)
}

func (h *ProjectHandler) ListIssues(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	issues, err := h.issues.FindByProjectID(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListIssues: lookup failed", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

type updateIssueStatusRequest struct {
	Status model.IssueStatus `json:"status" binding:"required"`
}

func (h *ProjectHandler) UpdateIssueStatus(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	issueID, err := strconv.Atoi(c.Param("issueId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	var req updateIssueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.issues.UpdateStatus(c.Request.Context(), issueID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update issue"})
		return
	}

	h.notifyUpdated(c.Request.Context(), projectID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ProjectHandler) UpdateIssueProgress(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	issueID, err := strconv.Atoi(c.Param("issueId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.issues.UpdateProgress(c.Request.Context(), issueID, req.Progress); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update issue"})
		return
	}

	h.notifyUpdated(c.Request.Context(), projectID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createMilestoneRequest struct {
	Name             string     `json:"name" binding:"required"`
	PhaseOrder       int        `json:"phase_order"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	StoryPoint       int        `json:"story_point"`
}

func (h *ProjectHandler) CreateMilestone(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	milestone := model.Milestone{
		ProjectID:        projectID,
		Name:             req.Name,
		Status:           model.IssueCreated,
		PhaseOrder:       req.PhaseOrder,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		StoryPoint:       req.StoryPoint,
	}
	if _, err := h.milestones.Insert(c.Request.Context(), &milestone); err != nil {
		h.logger.Error("CreateMilestone: insert failed", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create milestone"})
		return
	}

	h.notifyUpdated(c.Request.Context(), projectID)
	c.JSON(http.StatusCreated, milestone)
}

func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	milestones, err := h.milestones.FindByProjectID(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListMilestones: lookup failed", zap.Int("project_id", projectID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch milestones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

type updateMilestoneProgressRequest struct {
	Progress            int `json:"progress" binding:"min=0,max=100"`
	CompletedStoryPoint int `json:"completed_story_point" binding:"min=0"`
}

func (h *ProjectHandler) UpdateMilestoneProgress(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	milestoneID, err := strconv.Atoi(c.Param("milestoneId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone id"})
		return
	}

	var req updateMilestoneProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.milestones.UpdateProgress(c.Request.Context(), milestoneID, req.Progress, req.CompletedStoryPoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update milestone"})
		return
	}

	h.notifyUpdated(c.Request.Context(), projectID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
