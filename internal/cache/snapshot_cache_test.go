package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"projectpulse/internal/model"
)

func TestKey_StableWithinBucket(t *testing.T) {
	hash := uint64(0xdeadbeef)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	a := Key(7, hash, base)
	b := Key(7, hash, base.Add(2*time.Minute))
	assert.Equal(t, a, b)

	// next bucket gets a new key
	c := Key(7, hash, base.Add(6*time.Minute))
	assert.NotEqual(t, a, c)

	// keys are scoped per project for invalidation
	assert.NotEqual(t, a, Key(8, hash, base))
	assert.Contains(t, a, "health:7:")
}

func TestContentHash_TracksInputs(t *testing.T) {
	project := model.Project{ID: 1, Name: "Atlas", Status: model.ProjectCreated}
	issues := []model.Issue{{ID: 1, Name: "Plan", Status: model.IssueStarted}}

	a := ContentHash(project, issues, nil)
	assert.Equal(t, a, ContentHash(project, issues, nil))

	issues[0].Progress = 50
	assert.NotEqual(t, a, ContentHash(project, issues, nil))

	milestones := []model.Milestone{{ID: 1, Name: "M1"}}
	assert.NotEqual(t, a, ContentHash(project, issues, milestones))
}
