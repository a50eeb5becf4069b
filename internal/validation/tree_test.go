package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/johannesbremer/praxisplaner/internal/entity"
)

func dayOfWeekLeaf(ids ...string) *entity.RuleNode {
	return &entity.RuleNode{
		ID:            uuid.New(),
		NodeType:      entity.NodeTypeCONDITION,
		ConditionType: entity.ConditionDayOfWeek,
		Operator:      entity.OpIs,
		ValueIDs:      ids,
	}
}

func TestValidateNodeAcceptsWellFormedLeaf(t *testing.T) {
	r := ValidateNode(dayOfWeekLeaf("1", "2"))
	assert.True(t, r.IsValid())
}

func TestValidateNodeRejectsUnknownConditionType(t *testing.T) {
	n := dayOfWeekLeaf("1")
	n.ConditionType = "NOT_A_REAL_TYPE"
	r := ValidateNode(n)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeUnknownConditionType, r.Messages[0].Code)
}

func TestValidateNodeRejectsOperatorNotAllowedForConditionType(t *testing.T) {
	n := dayOfWeekLeaf("1")
	n.Operator = entity.OpGreaterThanOrEqual
	r := ValidateNode(n)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeInvalidOperator, r.Messages[0].Code)
}

func TestValidateNodeRejectsOutOfRangeDayOfWeek(t *testing.T) {
	r := ValidateNode(dayOfWeekLeaf("7"))
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeInvalidDayOfWeek, r.Messages[0].Code)
}

func TestValidateNodeRejectsDateRangeWithEndBeforeStart(t *testing.T) {
	n := &entity.RuleNode{
		ID: uuid.New(), NodeType: entity.NodeTypeCONDITION,
		ConditionType: entity.ConditionDateRange, Operator: entity.OpIs,
		ValueIDs: []string{"2026-06-01", "2026-01-01"},
	}
	r := ValidateNode(n)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeInvalidDateRange, r.Messages[0].Code)
}

func TestValidateNodeRejectsNegativeDaysAheadThreshold(t *testing.T) {
	neg := -1.0
	n := &entity.RuleNode{
		ID: uuid.New(), NodeType: entity.NodeTypeCONDITION,
		ConditionType: entity.ConditionDaysAhead, Operator: entity.OpLessThanOrEqual,
		ValueNumber: &neg,
	}
	r := ValidateNode(n)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeNegativeThreshold, r.Messages[0].Code)
}

func TestValidateNodeAllowsConcurrentCountWithNoAppointmentTypeFilter(t *testing.T) {
	threshold := 3.0
	n := &entity.RuleNode{
		ID: uuid.New(), NodeType: entity.NodeTypeCONDITION,
		ConditionType: entity.ConditionConcurrentCount, Operator: entity.OpLessThanOrEqual,
		ValueNumber: &threshold, Scope: entity.ScopePerPractitioner,
	}
	r := ValidateNode(n)
	assert.True(t, r.IsValid(), "empty valueIds means count every appointment type, not a missing field")
}

func TestValidateNodeRequiresNumericValueForConcurrentCount(t *testing.T) {
	n := &entity.RuleNode{
		ID: uuid.New(), NodeType: entity.NodeTypeCONDITION,
		ConditionType: entity.ConditionConcurrentCount, Operator: entity.OpLessThanOrEqual,
	}
	r := ValidateNode(n)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeMissingValueNumber, r.Messages[0].Code)
}

func TestValidateTreeRejectsConditionLeafWithChildren(t *testing.T) {
	tree := &Tree{
		Node:     dayOfWeekLeaf("1"),
		Children: []*Tree{{Node: dayOfWeekLeaf("2")}},
	}
	r := ValidateTree(tree)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeConditionNodeHasChildren, r.Messages[0].Code)
}

func TestValidateTreeRejectsEmptyAND(t *testing.T) {
	tree := &Tree{Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeAND}}
	r := ValidateTree(tree)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeBranchNodeMissingChildren, r.Messages[0].Code)
}

func TestValidateTreeRejectsNOTWithMultipleChildren(t *testing.T) {
	tree := &Tree{
		Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeNOT},
		Children: []*Tree{
			{Node: dayOfWeekLeaf("1")},
			{Node: dayOfWeekLeaf("2")},
		},
	}
	r := ValidateTree(tree)
	assert.False(t, r.IsValid())
	assert.Equal(t, CodeBranchNodeMissingChildren, r.Messages[0].Code)
}

func TestValidateTreeAcceptsWellFormedANDWithTwoLeaves(t *testing.T) {
	tree := &Tree{
		Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeAND},
		Children: []*Tree{
			{Node: dayOfWeekLeaf("1")},
			{Node: dayOfWeekLeaf("2")},
		},
	}
	r := ValidateTree(tree)
	assert.True(t, r.IsValid())
}

func TestValidateTreeSkipsChildrenOfAnInvalidNodeButNotSiblingSubtrees(t *testing.T) {
	badLeaf := dayOfWeekLeaf("9")
	root := &Tree{
		Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeAND},
		Children: []*Tree{
			// NOT node is invalid (no children); its own children list is
			// empty here so there is nothing further to skip, but the
			// sibling AND subtree below must still be checked.
			{Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeNOT}},
			{
				Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeAND},
				Children: []*Tree{
					{Node: badLeaf},
				},
			},
		},
	}
	r := ValidateTree(root)
	assert.False(t, r.IsValid())

	foundDayOfWeekError := false
	foundMissingChildrenError := false
	for _, m := range r.Messages {
		if m.Code == CodeInvalidDayOfWeek {
			foundDayOfWeekError = true
		}
		if m.Code == CodeBranchNodeMissingChildren {
			foundMissingChildrenError = true
		}
	}
	assert.True(t, foundDayOfWeekError, "sibling subtree's leaf error must still be reported")
	assert.True(t, foundMissingChildrenError)
}

func TestValidateRootsPrefixesMessagesWithRootIndex(t *testing.T) {
	goodRoot := &Tree{
		Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeAND},
		Children: []*Tree{
			{Node: dayOfWeekLeaf("1")},
		},
	}
	badRoot := &Tree{Node: &entity.RuleNode{ID: uuid.New(), NodeType: entity.NodeTypeAND}}

	r := ValidateRoots([]*Tree{goodRoot, badRoot})
	assert.False(t, r.IsValid())
	assert.Contains(t, r.Messages[0].Text, "root 2:")
}

func TestDescribePathRendersConditionTypeForLeafAndNodeTypeForBranches(t *testing.T) {
	path := []*entity.RuleNode{
		{NodeType: entity.NodeTypeAND},
		{NodeType: entity.NodeTypeNOT},
		{NodeType: entity.NodeTypeCONDITION, ConditionType: entity.ConditionPractitioner},
	}
	assert.Equal(t, "AND > NOT > PRACTITIONER", DescribePath(path))
}
