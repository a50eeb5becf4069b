// Package store implements §4.1: the copy-on-write versioned configuration
// store. A practice has at most one draft RuleSet at a time; forking always
// deep-copies from either the currently active saved set or an explicit
// source set; saving a draft freezes it and, optionally, promotes it to
// active in the same transaction.
//
// Grounded on the teacher's ScheduleVersionService (service/create/get/list
// shape, fmt.Errorf wrapping) generalized from a flat status enum to the
// fork/draft/save state machine this spec requires.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/remap"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

// ConfigStore is the service-layer entry point for every rule-set
// lifecycle operation named in §4.1.
type ConfigStore struct {
	db repository.Database
}

// NewConfigStore wraps db with the CoW rule-set lifecycle.
func NewConfigStore(db repository.Database) *ConfigStore {
	return &ConfigStore{db: db}
}

// GetOrCreateDraft returns the practice's existing draft, or forks one from
// sourceRuleSetID (or, if sourceRuleSetID is the zero UUID, from the
// practice's current active set). At most one draft may exist per practice
// at any time (§4.1 invariant P2); forking while a draft already exists
// returns the existing draft unchanged rather than erroring, since this is
// the natural "resume editing" path a caller takes after a page reload.
func (s *ConfigStore) GetOrCreateDraft(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID) (uuid.UUID, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if existing, err := tx.RuleSetRepository().GetDraft(ctx, practiceID); err != nil {
		return uuid.Nil, fmt.Errorf("check existing draft: %w", err)
	} else if existing != nil {
		return existing.ID, nil
	}

	source, err := s.resolveSource(ctx, tx, practiceID, sourceRuleSetID)
	if err != nil {
		return uuid.Nil, err
	}

	nextVersion := source.Version + 1
	sourceID := source.ID
	draft := &entity.RuleSet{
		ID:            uuid.New(),
		PracticeID:    practiceID,
		Version:       nextVersion,
		Saved:         false,
		ParentVersion: &sourceID,
		CreatedAt:     entity.Now(),
	}
	if err := tx.RuleSetRepository().Create(ctx, draft); err != nil {
		return uuid.Nil, fmt.Errorf("create draft rule set: %w", err)
	}

	if _, err := remap.DeepCopy(ctx, tx, practiceID, source.ID, draft.ID); err != nil {
		return uuid.Nil, fmt.Errorf("deep copy into draft: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit draft creation: %w", err)
	}
	return draft.ID, nil
}

// resolveSource finds the RuleSet a fork should copy from: the explicit
// sourceRuleSetID if given, else the practice's currently active set.
func (s *ConfigStore) resolveSource(ctx context.Context, tx repository.Transaction, practiceID, sourceRuleSetID uuid.UUID) (*entity.RuleSet, error) {
	if sourceRuleSetID != uuid.Nil {
		rs, err := tx.RuleSetRepository().GetByID(ctx, sourceRuleSetID)
		if err != nil {
			return nil, err
		}
		if rs.PracticeID != practiceID {
			return nil, entity.ErrMismatch("source rule set does not belong to practice " + practiceID.String())
		}
		return rs, nil
	}

	practice, err := tx.PracticeRepository().GetByID(ctx, practiceID)
	if err != nil {
		return nil, err
	}
	if practice.CurrentActiveRuleSetID == nil {
		return nil, entity.ErrNotFound("ActiveRuleSet", practiceID.String())
	}
	return tx.RuleSetRepository().GetByID(ctx, *practice.CurrentActiveRuleSetID)
}

// SaveDraft freezes the practice's draft rule set (Saved=true) and, when
// setAsActive is true, atomically promotes it to the practice's active set
// in the same transaction (§4.1 invariant P3: a save and an activation that
// happen together must not be observable as two separate states).
func (s *ConfigStore) SaveDraft(ctx context.Context, practiceID uuid.UUID, description string, setAsActive bool) (uuid.UUID, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	draft, err := tx.RuleSetRepository().GetDraft(ctx, practiceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load draft: %w", err)
	}
	if draft == nil {
		return uuid.Nil, entity.ErrNoDraft(practiceID.String())
	}

	draft.Saved = true
	draft.Description = description
	if err := tx.RuleSetRepository().Update(ctx, draft); err != nil {
		return uuid.Nil, fmt.Errorf("save draft: %w", err)
	}

	if setAsActive {
		if err := tx.PracticeRepository().SetActiveRuleSet(ctx, practiceID, draft.ID); err != nil {
			return uuid.Nil, fmt.Errorf("activate saved set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit save: %w", err)
	}
	return draft.ID, nil
}

// DiscardDraft deletes the practice's draft rule set and every entity owned
// by it. It is a no-op if no draft exists (§4.1: "No-op if no draft
// exists"), not an error — a caller discarding after someone else already
// saved or discarded the same draft should not have to treat that as a
// failure.
func (s *ConfigStore) DiscardDraft(ctx context.Context, practiceID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	draft, err := tx.RuleSetRepository().GetDraft(ctx, practiceID)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}
	if draft == nil {
		return nil
	}

	if err := deleteRuleSetContents(ctx, tx, draft.ID); err != nil {
		return fmt.Errorf("delete draft contents: %w", err)
	}
	if err := tx.RuleSetRepository().Delete(ctx, draft.ID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}

	return tx.Commit()
}

func deleteRuleSetContents(ctx context.Context, tx repository.Transaction, ruleSetID uuid.UUID) error {
	if err := tx.RuleNodeRepository().DeleteByRuleSet(ctx, ruleSetID); err != nil {
		return err
	}
	if err := tx.BaseScheduleRepository().DeleteByRuleSet(ctx, ruleSetID); err != nil {
		return err
	}
	if err := tx.AppointmentTypeRepository().DeleteByRuleSet(ctx, ruleSetID); err != nil {
		return err
	}
	if err := tx.LocationRepository().DeleteByRuleSet(ctx, ruleSetID); err != nil {
		return err
	}
	if err := tx.PractitionerRepository().DeleteByRuleSet(ctx, ruleSetID); err != nil {
		return err
	}
	return nil
}

// SetActive promotes an already-saved rule set to the practice's active
// set. ruleSetID must refer to a Saved set (§4.1 invariant P5: only saved
// sets may ever become active) belonging to practiceID.
func (s *ConfigStore) SetActive(ctx context.Context, practiceID, ruleSetID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rs, err := tx.RuleSetRepository().GetByID(ctx, ruleSetID)
	if err != nil {
		return err
	}
	if rs.PracticeID != practiceID {
		return entity.ErrMismatch("rule set does not belong to practice " + practiceID.String())
	}
	if !rs.Saved {
		return entity.ErrNotSaved(ruleSetID.String())
	}

	if err := tx.PracticeRepository().SetActiveRuleSet(ctx, practiceID, ruleSetID); err != nil {
		return err
	}
	return tx.Commit()
}

// VersionHistoryEntry is a row of the supplemented read-model described in
// SPEC_FULL.md: every saved rule set for a practice, newest first, flagged
// with whether it is the currently active one.
type VersionHistoryEntry struct {
	RuleSet  *entity.RuleSet
	IsActive bool
}

// VersionHistory lists every saved rule set for a practice, most recent
// version first, each annotated with whether it is the currently active set.
func (s *ConfigStore) VersionHistory(ctx context.Context, practiceID uuid.UUID) ([]VersionHistoryEntry, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	practice, err := tx.PracticeRepository().GetByID(ctx, practiceID)
	if err != nil {
		return nil, err
	}

	saved, err := tx.RuleSetRepository().ListSavedByPractice(ctx, practiceID)
	if err != nil {
		return nil, err
	}

	entries := make([]VersionHistoryEntry, 0, len(saved))
	for i := len(saved) - 1; i >= 0; i-- {
		rs := saved[i]
		isActive := practice.CurrentActiveRuleSetID != nil && *practice.CurrentActiveRuleSetID == rs.ID
		entries = append(entries, VersionHistoryEntry{RuleSet: rs, IsActive: isActive})
	}
	return entries, nil
}
