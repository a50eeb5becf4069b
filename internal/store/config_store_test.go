package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository/memory"
)

func newTestPractice(t *testing.T, db *memory.Database) *entity.Practice {
	t.Helper()
	ctx := context.Background()
	p := &entity.Practice{ID: uuid.New(), Name: "Test Practice", CreatedAt: entity.Now(), UpdatedAt: entity.Now()}
	require.NoError(t, db.PracticeRepository().Create(ctx, p))

	rs := &entity.RuleSet{ID: uuid.New(), PracticeID: p.ID, Version: 1, Saved: true, CreatedAt: entity.Now()}
	require.NoError(t, db.RuleSetRepository().Create(ctx, rs))
	require.NoError(t, db.PracticeRepository().SetActiveRuleSet(ctx, p.ID, rs.ID))
	p.CurrentActiveRuleSetID = &rs.ID
	return p
}

func TestGetOrCreateDraftForksFromActiveSet(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)

	draftID, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)

	draft, err := db.RuleSetRepository().GetByID(ctx, draftID)
	require.NoError(t, err)
	assert.False(t, draft.Saved)
	assert.Equal(t, 2, draft.Version)
}

func TestGetOrCreateDraftIsIdempotent(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)

	first, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)

	second, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "a second fork while a draft exists must return the same draft")
}

func TestSaveDraftRequiresExistingDraft(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)

	_, err := cs.SaveDraft(ctx, practice.ID, "no draft yet", false)
	require.Error(t, err)
	assert.True(t, entity.IsKind(err, entity.KindNoDraft))
}

func TestSaveDraftWithSetAsActivePromotesAtomically(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)
	draftID, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)

	savedID, err := cs.SaveDraft(ctx, practice.ID, "v2", true)
	require.NoError(t, err)
	assert.Equal(t, draftID, savedID)

	updated, err := db.PracticeRepository().GetByID(ctx, practice.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CurrentActiveRuleSetID)
	assert.Equal(t, draftID, *updated.CurrentActiveRuleSetID)
}

func TestDiscardDraftRemovesItsContents(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)
	draftID, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)

	require.NoError(t, cs.DiscardDraft(ctx, practice.ID))

	_, err = db.RuleSetRepository().GetByID(ctx, draftID)
	require.Error(t, err)
}

func TestDiscardDraftIsANoOpWhenNoDraftExists(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)
	assert.NoError(t, cs.DiscardDraft(ctx, practice.ID))
}

func TestSetActiveRejectsUnsavedSet(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)
	draftID, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)

	err = cs.SetActive(ctx, practice.ID, draftID)
	require.Error(t, err)
	assert.True(t, entity.IsKind(err, entity.KindNotSaved))
}

func TestVersionHistoryOrdersNewestFirst(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	cs := NewConfigStore(db)
	ctx := context.Background()

	practice := newTestPractice(t, db)

	_, err := cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)
	v2ID, err := cs.SaveDraft(ctx, practice.ID, "v2", true)
	require.NoError(t, err)

	_, err = cs.GetOrCreateDraft(ctx, practice.ID, uuid.Nil)
	require.NoError(t, err)
	v3ID, err := cs.SaveDraft(ctx, practice.ID, "v3", false)
	require.NoError(t, err)

	history, err := cs.VersionHistory(ctx, practice.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, v3ID, history[0].RuleSet.ID)
	assert.False(t, history[0].IsActive)
	assert.Equal(t, v2ID, history[1].RuleSet.ID)
	assert.True(t, history[1].IsActive)
}
