package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
	"github.com/lib/pq"
)

type ruleNodeRepo struct{ db execer }

const ruleNodeColumns = `id, practice_id, rule_set_id, parent_condition_id, child_order, is_root, copy_from_id,
	created_at, last_modified, enabled, node_type, condition_type, operator, value_ids, value_number, scope`

func (r *ruleNodeRepo) Create(ctx context.Context, n *entity.RuleNode) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rule_nodes (id, practice_id, rule_set_id, parent_condition_id, child_order, is_root, copy_from_id,
			created_at, last_modified, enabled, node_type, condition_type, operator, value_ids, value_number, scope)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		n.ID, n.PracticeID, n.RuleSetID, n.ParentConditionID, n.ChildOrder, n.IsRoot, n.CopyFromID,
		n.CreatedAt, n.LastModified, n.Enabled, string(n.NodeType), string(n.ConditionType), string(n.Operator),
		pq.Array(n.ValueIDs), n.ValueNumber, string(n.Scope))
	if err != nil {
		return fmt.Errorf("create rule node: %w", err)
	}
	return nil
}

func scanRuleNode(row *sql.Row) (*entity.RuleNode, error) {
	n := &entity.RuleNode{}
	var valueIDs pq.StringArray
	var nodeType, conditionType, operator, scope string
	err := row.Scan(&n.ID, &n.PracticeID, &n.RuleSetID, &n.ParentConditionID, &n.ChildOrder, &n.IsRoot, &n.CopyFromID,
		&n.CreatedAt, &n.LastModified, &n.Enabled, &nodeType, &conditionType, &operator, &valueIDs, &n.ValueNumber, &scope)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan rule node: %w", err)
	}
	n.NodeType = entity.NodeType(nodeType)
	n.ConditionType = entity.ConditionType(conditionType)
	n.Operator = entity.Operator(operator)
	n.Scope = entity.Scope(scope)
	n.ValueIDs = []string(valueIDs)
	return n, nil
}

func (r *ruleNodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleNode, error) {
	n, err := scanRuleNode(r.db.QueryRowContext(ctx, `SELECT `+ruleNodeColumns+` FROM rule_nodes WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: id.String()}
	}
	return n, nil
}

func (r *ruleNodeRepo) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.RuleNode, error) {
	n, err := scanRuleNode(r.db.QueryRowContext(ctx, `SELECT `+ruleNodeColumns+` FROM rule_nodes WHERE rule_set_id = $1 AND copy_from_id = $2`, ruleSetID, parentID))
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: parentID.String()}
	}
	return n, nil
}

func (r *ruleNodeRepo) queryNodes(ctx context.Context, query string, args ...interface{}) ([]*entity.RuleNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rule nodes: %w", err)
	}
	defer rows.Close()

	var result []*entity.RuleNode
	for rows.Next() {
		n := &entity.RuleNode{}
		var valueIDs pq.StringArray
		var nodeType, conditionType, operator, scope string
		if err := rows.Scan(&n.ID, &n.PracticeID, &n.RuleSetID, &n.ParentConditionID, &n.ChildOrder, &n.IsRoot, &n.CopyFromID,
			&n.CreatedAt, &n.LastModified, &n.Enabled, &nodeType, &conditionType, &operator, &valueIDs, &n.ValueNumber, &scope); err != nil {
			return nil, fmt.Errorf("scan rule node: %w", err)
		}
		n.NodeType = entity.NodeType(nodeType)
		n.ConditionType = entity.ConditionType(conditionType)
		n.Operator = entity.Operator(operator)
		n.Scope = entity.Scope(scope)
		n.ValueIDs = []string(valueIDs)
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *ruleNodeRepo) ListChildren(ctx context.Context, ruleSetID uuid.UUID, parentID *uuid.UUID) ([]*entity.RuleNode, error) {
	if parentID == nil {
		return r.queryNodes(ctx, `SELECT `+ruleNodeColumns+` FROM rule_nodes WHERE rule_set_id = $1 AND parent_condition_id IS NULL ORDER BY child_order`, ruleSetID)
	}
	return r.queryNodes(ctx, `SELECT `+ruleNodeColumns+` FROM rule_nodes WHERE rule_set_id = $1 AND parent_condition_id = $2 ORDER BY child_order`, ruleSetID, *parentID)
}

func (r *ruleNodeRepo) ListRoots(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	return r.queryNodes(ctx, `SELECT `+ruleNodeColumns+` FROM rule_nodes WHERE rule_set_id = $1 AND is_root = true ORDER BY created_at, id`, ruleSetID)
}

func (r *ruleNodeRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	return r.queryNodes(ctx, `SELECT `+ruleNodeColumns+` FROM rule_nodes WHERE rule_set_id = $1`, ruleSetID)
}

func (r *ruleNodeRepo) Update(ctx context.Context, n *entity.RuleNode) error {
	n.LastModified = entity.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE rule_nodes SET child_order = $2, enabled = $3, node_type = $4, condition_type = $5, operator = $6,
			value_ids = $7, value_number = $8, scope = $9, last_modified = $10
		WHERE id = $1`,
		n.ID, n.ChildOrder, n.Enabled, string(n.NodeType), string(n.ConditionType), string(n.Operator),
		pq.Array(n.ValueIDs), n.ValueNumber, string(n.Scope), n.LastModified)
	if err != nil {
		return fmt.Errorf("update rule node: %w", err)
	}
	return requireRowsAffected(result, "RuleNode", n.ID.String())
}

func (r *ruleNodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rule_nodes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule node: %w", err)
	}
	return requireRowsAffected(result, "RuleNode", id.String())
}

func (r *ruleNodeRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rule_nodes WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return fmt.Errorf("delete rule nodes by rule set: %w", err)
	}
	return nil
}
