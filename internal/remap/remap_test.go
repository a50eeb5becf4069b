package remap

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
	"github.com/johannesbremer/praxisplaner/internal/repository/memory"
)

func newSourceSet(t *testing.T, db *memory.Database) (practiceID, sourceID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	practiceID = uuid.New()
	require.NoError(t, db.PracticeRepository().Create(ctx, &entity.Practice{ID: practiceID, Name: "P", CreatedAt: entity.Now(), UpdatedAt: entity.Now()}))

	sourceID = uuid.New()
	require.NoError(t, db.RuleSetRepository().Create(ctx, &entity.RuleSet{ID: sourceID, PracticeID: practiceID, Version: 1, Saved: true, CreatedAt: entity.Now()}))
	return practiceID, sourceID
}

func createTargetSet(t *testing.T, db *memory.Database, practiceID uuid.UUID) uuid.UUID {
	t.Helper()
	targetID := uuid.New()
	require.NoError(t, db.RuleSetRepository().Create(context.Background(), &entity.RuleSet{ID: targetID, PracticeID: practiceID, Version: 2, Saved: false, CreatedAt: entity.Now()}))
	return targetID
}

func withTx(t *testing.T, db *memory.Database, fn func(tx repository.Transaction) error) {
	t.Helper()
	tx, err := db.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}

func TestDeepCopyRemapsPractitionerAndLocationReferences(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	ctx := context.Background()
	practiceID, sourceID := newSourceSet(t, db)

	practitionerID := uuid.New()
	require.NoError(t, db.PractitionerRepository().Create(ctx, &entity.Practitioner{ID: practitionerID, PracticeID: practiceID, RuleSetID: sourceID, Name: "Dr. A"}))

	locationID := uuid.New()
	require.NoError(t, db.LocationRepository().Create(ctx, &entity.Location{ID: locationID, PracticeID: practiceID, RuleSetID: sourceID, Name: "Main"}))

	apptTypeID := uuid.New()
	require.NoError(t, db.AppointmentTypeRepository().Create(ctx, &entity.AppointmentType{
		ID: apptTypeID, PracticeID: practiceID, RuleSetID: sourceID, Name: "Checkup",
		DurationMinutes: 30, AllowedPractitionerIDs: []uuid.UUID{practitionerID},
	}))

	targetID := createTargetSet(t, db, practiceID)

	var res *Result
	withTx(t, db, func(tx repository.Transaction) error {
		var err error
		res, err = DeepCopy(ctx, tx, practiceID, sourceID, targetID)
		return err
	})

	require.Len(t, res.Practitioners, 1)
	require.Len(t, res.Locations, 1)
	require.Len(t, res.AppointmentTypes, 1)

	newApptTypes, err := db.AppointmentTypeRepository().ListByRuleSet(ctx, targetID)
	require.NoError(t, err)
	require.Len(t, newApptTypes, 1)

	newPractitionerID := res.Practitioners[practitionerID]
	assert.Equal(t, []uuid.UUID{newPractitionerID}, newApptTypes[0].AllowedPractitionerIDs)
	assert.NotEqual(t, practitionerID, newPractitionerID)
	assert.NotEqual(t, locationID, res.Locations[locationID])
	assert.Equal(t, apptTypeID, *newApptTypes[0].ParentID)
}

func TestDeepCopyRemapsBaseScheduleReferences(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	ctx := context.Background()
	practiceID, sourceID := newSourceSet(t, db)

	practitionerID := uuid.New()
	require.NoError(t, db.PractitionerRepository().Create(ctx, &entity.Practitioner{ID: practitionerID, PracticeID: practiceID, RuleSetID: sourceID, Name: "Dr. A"}))
	locationID := uuid.New()
	require.NoError(t, db.LocationRepository().Create(ctx, &entity.Location{ID: locationID, PracticeID: practiceID, RuleSetID: sourceID, Name: "Main"}))

	scheduleID := uuid.New()
	require.NoError(t, db.BaseScheduleRepository().Create(ctx, &entity.BaseSchedule{
		ID: scheduleID, PracticeID: practiceID, RuleSetID: sourceID,
		PractitionerID: practitionerID, LocationID: locationID, DayOfWeek: 1,
	}))

	targetID := createTargetSet(t, db, practiceID)

	var res *Result
	withTx(t, db, func(tx repository.Transaction) error {
		var err error
		res, err = DeepCopy(ctx, tx, practiceID, sourceID, targetID)
		return err
	})

	schedules, err := db.BaseScheduleRepository().ListByRuleSet(ctx, targetID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, res.Practitioners[practitionerID], schedules[0].PractitionerID)
	assert.Equal(t, res.Locations[locationID], schedules[0].LocationID)
}

func TestDeepCopyRejectsDanglingAppointmentTypeReference(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	ctx := context.Background()
	practiceID, sourceID := newSourceSet(t, db)

	// AppointmentType references a practitioner that was never created,
	// simulating a source set whose referential integrity is already broken.
	ghostPractitionerID := uuid.New()
	require.NoError(t, db.AppointmentTypeRepository().Create(ctx, &entity.AppointmentType{
		ID: uuid.New(), PracticeID: practiceID, RuleSetID: sourceID, Name: "Checkup",
		DurationMinutes: 30, AllowedPractitionerIDs: []uuid.UUID{ghostPractitionerID},
	}))

	targetID := createTargetSet(t, db, practiceID)

	var copyErr error
	withTx(t, db, func(tx repository.Transaction) error {
		_, copyErr = DeepCopy(ctx, tx, practiceID, sourceID, targetID)
		return nil
	})

	require.Error(t, copyErr)
	assert.True(t, entity.IsKind(copyErr, entity.KindCorruptMapping))
}

func TestDeepCopyWalksRuleTreeParentBeforeChildren(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	ctx := context.Background()
	practiceID, sourceID := newSourceSet(t, db)

	rootID := uuid.New()
	require.NoError(t, db.RuleNodeRepository().Create(ctx, &entity.RuleNode{
		ID: rootID, PracticeID: practiceID, RuleSetID: sourceID, IsRoot: true,
		ChildOrder: 0, Enabled: true, NodeType: entity.NodeTypeAND,
	}))

	childID := uuid.New()
	require.NoError(t, db.RuleNodeRepository().Create(ctx, &entity.RuleNode{
		ID: childID, PracticeID: practiceID, RuleSetID: sourceID, ParentConditionID: &rootID,
		ChildOrder: 0, NodeType: entity.NodeTypeCONDITION, ConditionType: entity.ConditionDayOfWeek,
		Operator: entity.OpIs, ValueIDs: []string{"1"}, Scope: entity.ScopeGlobal,
	}))

	targetID := createTargetSet(t, db, practiceID)

	withTx(t, db, func(tx repository.Transaction) error {
		_, err := DeepCopy(ctx, tx, practiceID, sourceID, targetID)
		return err
	})

	roots, err := db.RuleNodeRepository().ListRoots(ctx, targetID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, rootID, *roots[0].CopyFromID)

	children, err := db.RuleNodeRepository().ListChildren(ctx, targetID, &roots[0].ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, childID, *children[0].CopyFromID)
	assert.Equal(t, roots[0].ID, *children[0].ParentConditionID)
}

func TestDeepCopyRemapsConditionValueIDsThroughEntityMaps(t *testing.T) {
	db := memory.NewDatabase(memory.NewStore())
	ctx := context.Background()
	practiceID, sourceID := newSourceSet(t, db)

	practitionerID := uuid.New()
	require.NoError(t, db.PractitionerRepository().Create(ctx, &entity.Practitioner{ID: practitionerID, PracticeID: practiceID, RuleSetID: sourceID, Name: "Dr. A"}))

	leafID := uuid.New()
	require.NoError(t, db.RuleNodeRepository().Create(ctx, &entity.RuleNode{
		ID: leafID, PracticeID: practiceID, RuleSetID: sourceID, IsRoot: true,
		ChildOrder: 0, Enabled: true, NodeType: entity.NodeTypeCONDITION,
		ConditionType: entity.ConditionPractitioner, Operator: entity.OpIs,
		ValueIDs: []string{practitionerID.String()}, Scope: entity.ScopeGlobal,
	}))

	targetID := createTargetSet(t, db, practiceID)

	var res *Result
	withTx(t, db, func(tx repository.Transaction) error {
		var err error
		res, err = DeepCopy(ctx, tx, practiceID, sourceID, targetID)
		return err
	})

	roots, err := db.RuleNodeRepository().ListRoots(ctx, targetID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].ValueIDs, 1)
	assert.Equal(t, res.Practitioners[practitionerID].String(), roots[0].ValueIDs[0])
}
