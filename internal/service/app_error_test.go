package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/tests/mocks"
)

// These exercise App's error-propagation paths against a repository backend
// that can fail on demand, which memory.Database (always succeeds) cannot
// produce.

func TestCreatePractitionerWrapsBeginTxFailure(t *testing.T) {
	db := mocks.NewMockDatabase()
	boom := errors.New("pool exhausted")
	db.SetBeginTxError(boom)

	app := NewApp(db)
	_, err := app.CreatePractitioner(context.Background(), uuid.New(), uuid.Nil, "Dr. A", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCreatePractitionerPropagatesDraftLookupFailure(t *testing.T) {
	db := mocks.NewMockDatabase()
	boom := errors.New("connection reset")
	db.RuleSet.SetGetError(boom)

	app := NewApp(db)
	_, err := app.CreatePractitioner(context.Background(), uuid.New(), uuid.Nil, "Dr. A", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCreatePractitionerFailsWhenPracticeHasNoActiveRuleSet(t *testing.T) {
	db := mocks.NewMockDatabase()
	practice := &entity.Practice{ID: uuid.New(), Name: "No Active Set"}
	require.NoError(t, db.Practice.Create(context.Background(), practice))

	app := NewApp(db)
	_, err := app.CreatePractitioner(context.Background(), practice.ID, uuid.Nil, "Dr. A", nil)
	require.Error(t, err, "forking with no explicit source and no active rule set must fail")
}

func TestCreatePractitionerSurfacesRepositorySaveFailure(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewMockDatabase()
	practice := &entity.Practice{ID: uuid.New(), Name: "Practice"}
	require.NoError(t, db.Practice.Create(ctx, practice))
	ruleSet := &entity.RuleSet{ID: uuid.New(), PracticeID: practice.ID, Version: 1, Saved: true, CreatedAt: entity.Now()}
	require.NoError(t, db.RuleSet.Create(ctx, ruleSet))
	require.NoError(t, db.Practice.SetActiveRuleSet(ctx, practice.ID, ruleSet.ID))

	boom := errors.New("disk full")
	db.Practitioner.SetSaveError(boom)

	app := NewApp(db)
	_, err := app.CreatePractitioner(ctx, practice.ID, uuid.Nil, "Dr. A", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
