package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"projectpulse/internal/handler"
	enginepkg "projectpulse/internal/health"
	"projectpulse/internal/model"
	"projectpulse/internal/repository"
	healthsvc "projectpulse/internal/service/health"
	"projectpulse/internal/util"
)

const testSecret = "test-secret"

type stubProjects struct{ project model.Project }

func (s *stubProjects) FindByID(_ context.Context, _ int) (*model.Project, error) {
	p := s.project
	return &p, nil
}

type stubIssues struct{}

func (s *stubIssues) FindByProjectID(_ context.Context, _ int) ([]model.Issue, error) {
	return nil, nil
}

type stubMilestones struct{}

func (s *stubMilestones) FindByProjectID(_ context.Context, _ int) ([]model.Milestone, error) {
	return nil, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	projects := &stubProjects{project: model.Project{
		ID: 1, Name: "Atlas", Status: model.ProjectCreated, Progress: 10,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	engine := enginepkg.NewEngine(enginepkg.DefaultRiskTiers())
	svc := healthsvc.NewService(projects, &stubIssues{}, &stubMilestones{}, nil, nil, engine, log)

	healthHandler := handler.NewHealthHandler(svc, log)
	projectHandler := handler.NewProjectHandler(
		repository.NewProjectRepository(nil, log),
		repository.NewIssueRepository(nil, log),
		repository.NewMilestoneRepository(nil, log),
		nil,
		log,
	)

	return NewRouter(healthHandler, projectHandler, log, nil, nil, testSecret)
}

func authHeader(t *testing.T) string {
	t.Helper()
	token, err := util.GenerateJWT(1, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthzOpen(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/1/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/projects/1/health", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProjectHealth(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/1/health", nil)
	req.Header.Set("Authorization", authHeader(t))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "Atlas", snap.Overall.Name)
	assert.Equal(t, string(model.StagePlanning), snap.Overall.Stage)
	assert.NotNil(t, snap.Planning)
	assert.NotNil(t, snap.Building)
}

func TestGetProjectHealth_BadID(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/abc/health", nil)
	req.Header.Set("Authorization", authHeader(t))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRollup(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/rollup?ids=1,1", nil)
	req.Header.Set("Authorization", authHeader(t))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Projects []healthsvc.RollupCard `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Projects, 2)
	assert.Equal(t, "Atlas", body.Projects[0].Name)
}

func TestGetRollup_MissingIDs(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/rollup", nil)
	req.Header.Set("Authorization", authHeader(t))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
