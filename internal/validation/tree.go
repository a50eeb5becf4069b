package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johannesbremer/praxisplaner/internal/entity"
)

// Tree is an in-memory reconstruction of a RuleNode and its children, built
// by the caller (typically from repository.RuleNodeRepository.ListChildren
// calls) before validation or evaluation.
type Tree struct {
	Node     *entity.RuleNode
	Children []*Tree
}

// ValidateNode checks a single node in isolation: valid NodeType, valid
// ConditionType and Operator (when it is a CONDITION leaf), and the
// type-specific ValueIDs/ValueNumber shape described in §3's condition
// table. It does not look at children — ValidateTree does that.
func ValidateNode(n *entity.RuleNode) *Result {
	r := NewResult()
	validateNode(n, r)
	return r
}

func validateNode(n *entity.RuleNode, r *Result) {
	if !entity.IsValidNodeType(string(n.NodeType)) {
		r.AddError(n.ID.String(), CodeUnknownNodeType, fmt.Sprintf("unknown node type %q", n.NodeType))
		return
	}

	if n.NodeType != entity.NodeTypeCONDITION {
		return
	}

	if !entity.IsValidConditionType(string(n.ConditionType)) {
		r.AddError(n.ID.String(), CodeUnknownConditionType, fmt.Sprintf("unknown condition type %q", n.ConditionType))
		return
	}

	allowed := entity.AllowedOperators(n.ConditionType)
	opOK := false
	for _, op := range allowed {
		if op == n.Operator {
			opOK = true
			break
		}
	}
	if !opOK {
		r.AddErrorWithContext(n.ID.String(), CodeInvalidOperator,
			fmt.Sprintf("operator %q is not valid for condition type %q", n.Operator, n.ConditionType),
			map[string]interface{}{"allowed": allowed})
		return
	}

	validateValueShape(n, r)
}

// validateValueShape enforces the per-conditionType payload shape: the set
// types (PRACTITIONER, LOCATION, APPOINTMENT_TYPE, PRACTITIONER_TAG,
// CLIENT_TYPE, DAY_OF_WEEK) carry ValueIDs; the numeric/range types
// (DATE_RANGE, TIME_RANGE, DAYS_AHEAD, CONCURRENT_COUNT, DAILY_CAPACITY)
// carry their payload differently.
func validateValueShape(n *entity.RuleNode, r *Result) {
	switch n.ConditionType {
	case entity.ConditionPractitioner, entity.ConditionLocation, entity.ConditionAppointmentType,
		entity.ConditionPractitionerTag, entity.ConditionClientType:
		if len(n.ValueIDs) == 0 {
			r.AddError(n.ID.String(), CodeMissingValueIDs, "condition requires at least one value id")
		}
		if n.ValueNumber != nil {
			r.AddError(n.ID.String(), CodeUnexpectedValueNumber, "condition does not take a numeric value")
		}

	case entity.ConditionDayOfWeek:
		if len(n.ValueIDs) == 0 {
			r.AddError(n.ID.String(), CodeMissingValueIDs, "condition requires at least one day of week")
		}
		for _, v := range n.ValueIDs {
			d, err := strconv.Atoi(v)
			if err != nil || d < 0 || d > 6 {
				r.AddErrorWithContext(n.ID.String(), CodeInvalidDayOfWeek,
					fmt.Sprintf("invalid day of week %q, must be 0-6", v),
					map[string]interface{}{"value": v})
			}
		}

	case entity.ConditionDateRange:
		if len(n.ValueIDs) != 2 {
			r.AddError(n.ID.String(), CodeInvalidDateRange, "date range requires exactly two values: start,end")
			return
		}
		start, err1 := time.Parse("2006-01-02", n.ValueIDs[0])
		end, err2 := time.Parse("2006-01-02", n.ValueIDs[1])
		if err1 != nil || err2 != nil {
			r.AddError(n.ID.String(), CodeInvalidDateRange, "date range values must be YYYY-MM-DD")
			return
		}
		if end.Before(start) {
			r.AddError(n.ID.String(), CodeInvalidDateRange, "date range end precedes start")
		}

	case entity.ConditionTimeRange:
		if len(n.ValueIDs) != 2 {
			r.AddError(n.ID.String(), CodeInvalidTimeRange, "time range requires exactly two values: start,end")
			return
		}
		start, err1 := time.Parse("15:04", n.ValueIDs[0])
		end, err2 := time.Parse("15:04", n.ValueIDs[1])
		if err1 != nil || err2 != nil {
			r.AddError(n.ID.String(), CodeInvalidTimeRange, "time range values must be HH:MM")
			return
		}
		if !end.After(start) {
			r.AddError(n.ID.String(), CodeInvalidTimeRange, "time range end must be after start")
		}

	case entity.ConditionDaysAhead, entity.ConditionConcurrentCount, entity.ConditionDailyCapacity:
		if n.ValueNumber == nil {
			r.AddError(n.ID.String(), CodeMissingValueNumber, "condition requires a numeric value")
			return
		}
		if *n.ValueNumber < 0 {
			r.AddError(n.ID.String(), CodeNegativeThreshold, "numeric value cannot be negative")
		}
		// valueIds is an optional appointment-type filter here, not a
		// required field: an empty set means "count every appointment
		// type" (§8's scope=per-practitioner, valueIds=[] boundary case).
	}
}

// ValidateTree recursively validates a node and its children, collecting
// every error rather than stopping at the first (§4.3: "collect all errors
// at each level, then stop recursing into the invalid node" — an invalid
// CONDITION or AND/NOT node's own children are skipped since the parent's
// shape is already unusable, but sibling subtrees are still checked).
func ValidateTree(t *Tree) *Result {
	r := NewResult()
	validateTreeNode(t, r)
	return r
}

func validateTreeNode(t *Tree, r *Result) {
	if t == nil || t.Node == nil {
		return
	}

	before := len(r.Messages)
	validateNode(t.Node, r)
	invalid := len(r.Messages) > before

	switch t.Node.NodeType {
	case entity.NodeTypeCONDITION:
		if len(t.Children) > 0 {
			r.AddError(t.Node.ID.String(), CodeConditionNodeHasChildren, "a CONDITION leaf may not have children")
		}
		return
	case entity.NodeTypeAND:
		if len(t.Children) == 0 && !invalid {
			r.AddError(t.Node.ID.String(), CodeBranchNodeMissingChildren, "AND requires at least one child")
		}
	case entity.NodeTypeNOT:
		if len(t.Children) != 1 && !invalid {
			r.AddError(t.Node.ID.String(), CodeBranchNodeMissingChildren, "NOT requires exactly one child")
		}
	default:
		return
	}

	if invalid {
		return
	}
	for _, child := range t.Children {
		validateTreeNode(child, r)
	}
}

// ValidateRoots validates every root tree for a rule set, prefixing each
// message's text with a 1-based root index so multi-root validation
// results stay readable in the API envelope.
func ValidateRoots(roots []*Tree) *Result {
	r := NewResult()
	for i, t := range roots {
		sub := ValidateTree(t)
		for _, m := range sub.Messages {
			m.Text = fmt.Sprintf("root %d: %s", i+1, m.Text)
			r.Messages = append(r.Messages, m)
		}
	}
	return r
}

// DescribePath renders a leaf's ancestry as a human-readable breadcrumb for
// log lines and API responses, e.g. "AND > NOT > PRACTITIONER".
func DescribePath(path []*entity.RuleNode) string {
	parts := make([]string, 0, len(path))
	for _, n := range path {
		if n.NodeType == entity.NodeTypeCONDITION {
			parts = append(parts, string(n.ConditionType))
		} else {
			parts = append(parts, string(n.NodeType))
		}
	}
	return strings.Join(parts, " > ")
}
