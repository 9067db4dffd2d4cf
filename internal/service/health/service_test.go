package health

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	enginepkg "projectpulse/internal/health"
	"projectpulse/internal/model"
	"projectpulse/pkg/mq"
)

type fakeProjects struct {
	project *model.Project
	err     error
}

func (f *fakeProjects) FindByID(_ context.Context, _ int) (*model.Project, error) {
	return f.project, f.err
}

type fakeIssues struct {
	issues []model.Issue
}

func (f *fakeIssues) FindByProjectID(_ context.Context, _ int) ([]model.Issue, error) {
	return f.issues, nil
}

type fakeMilestones struct {
	milestones []model.Milestone
}

func (f *fakeMilestones) FindByProjectID(_ context.Context, _ int) ([]model.Milestone, error) {
	return f.milestones, nil
}

type fakeCache struct {
	store map[string]model.Snapshot
	hits  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]model.Snapshot{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (*model.Snapshot, bool) {
	snap, ok := f.store[key]
	if !ok {
		return nil, false
	}
	f.hits++
	return &snap, true
}

func (f *fakeCache) Set(_ context.Context, key string, snap model.Snapshot) {
	f.sets++
	f.store[key] = snap
}

type fakePublisher struct {
	keys     []string
	payloads []any
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.keys = append(f.keys, routingKey)
	f.payloads = append(f.payloads, payload)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testService(t *testing.T) (*Service, *fakeCache, *fakePublisher) {
	t.Helper()
	due := date(2025, 6, 1)
	projects := &fakeProjects{project: &model.Project{
		ID: 1, Name: "Atlas", Status: model.ProjectCreated, Progress: 30,
		DueDate: &due, CreatedAt: date(2025, 1, 1), UpdatedAt: date(2025, 2, 1),
	}}
	issues := &fakeIssues{issues: []model.Issue{{
		ID: 1, ProjectID: 1, Name: "Development plan", Role: model.RoleDevelopmentPlan,
		Status: model.IssueStarted, Progress: 50,
		CreatedAt: date(2025, 1, 1), UpdatedAt: date(2025, 1, 15),
	}}}
	milestones := &fakeMilestones{}

	cache := newFakeCache()
	publisher := &fakePublisher{}
	engine := enginepkg.NewEngine(enginepkg.DefaultRiskTiers())
	svc := NewService(projects, issues, milestones, cache, publisher, engine, zap.NewNop()).
		WithNow(func() time.Time { return date(2025, 2, 1) })
	return svc, cache, publisher
}

func TestProjectSnapshot_ComputesAndCaches(t *testing.T) {
	svc, cache, publisher := testService(t)

	snap, err := svc.ProjectSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Atlas", snap.Overall.Name)
	assert.Equal(t, string(model.StagePlanning), snap.Overall.Stage)
	assert.Equal(t, 1, cache.sets)

	// identical inputs in the same time bucket come from cache
	again, err := svc.ProjectSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, snap, again)

	// only the first call computed and published
	require.Len(t, publisher.keys, 1)
	assert.Equal(t, mq.RoutingKeyHealthComputed, publisher.keys[0])
	event, ok := publisher.payloads[0].(mq.HealthComputedPayload)
	require.True(t, ok)
	assert.Equal(t, 1, event.ProjectID)
	assert.Equal(t, string(model.StagePlanning), event.Stage)
}

func TestProjectSnapshot_NotFound(t *testing.T) {
	svc, _, _ := testService(t)
	svc.projects = &fakeProjects{err: pgx.ErrNoRows}

	_, err := svc.ProjectSnapshot(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestProjectSnapshot_NoCacheNoPublisher(t *testing.T) {
	svc, _, _ := testService(t)
	svc.cache = nil
	svc.publisher = nil

	snap, err := svc.ProjectSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Atlas", snap.Overall.Name)
}

func TestRollup(t *testing.T) {
	svc, _, _ := testService(t)

	cards, err := svc.Rollup(context.Background(), []int{1, 1})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Atlas", cards[0].Name)
	assert.Equal(t, string(model.StagePlanning), cards[0].Stage)
	assert.Contains(t, cards[0].Headline, "Project is currently in Planning phase")
}
