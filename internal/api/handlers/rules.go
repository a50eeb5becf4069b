package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/johannesbremer/praxisplaner/internal/api"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/service"
)

// RuleHandler handles the condition-tree CRUD operations of §6.
type RuleHandler struct {
	app *service.App
}

// NewRuleHandler wraps app for rule-node handlers.
func NewRuleHandler(app *service.App) *RuleHandler {
	return &RuleHandler{app: app}
}

// RuleRequest is the request body for creating or updating a single node.
type RuleRequest struct {
	ParentID      *uuid.UUID           `json:"parentId,omitempty"`
	ChildOrder    int                  `json:"childOrder"`
	NodeType      entity.NodeType      `json:"nodeType" validate:"required"`
	ConditionType entity.ConditionType `json:"conditionType,omitempty"`
	Operator      entity.Operator      `json:"operator,omitempty"`
	ValueIDs      []string             `json:"valueIds,omitempty"`
	ValueNumber   *float64             `json:"valueNumber,omitempty"`
	Scope         entity.Scope         `json:"scope,omitempty"`
	Enabled       bool                 `json:"enabled"`
}

// CreateRule handles POST /api/practices/:practiceId/rules
func (h *RuleHandler) CreateRule(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req RuleRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.CreateRule(c.Request().Context(), practiceID, srcRuleSetID, service.RuleInput{
		ParentID: req.ParentID, ChildOrder: req.ChildOrder, NodeType: req.NodeType,
		ConditionType: req.ConditionType, Operator: req.Operator, ValueIDs: req.ValueIDs,
		ValueNumber: req.ValueNumber, Scope: req.Scope, Enabled: req.Enabled,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, api.SuccessResponse(res))
}

// UpdateRuleRequest carries the one mutable field a rule node exposes.
type UpdateRuleRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateRule handles PUT /api/practices/:practiceId/rules/:id
func (h *RuleHandler) UpdateRule(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	ruleID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req UpdateRuleRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.UpdateRule(c.Request().Context(), practiceID, srcRuleSetID, ruleID, req.Enabled)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// DeleteRule handles DELETE /api/practices/:practiceId/rules/:id
func (h *RuleHandler) DeleteRule(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	ruleID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	res, err := h.app.DeleteRule(c.Request().Context(), practiceID, srcRuleSetID, ruleID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// ListRules handles GET /api/rule-sets/:ruleSetId/rules — the root nodes
// only; fetch a given root's nested tree via GetRule.
func (h *RuleHandler) ListRules(c echo.Context) error {
	ruleSetID, err := parsePathUUID(c, "ruleSetId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}
	list, err := h.app.ListRules(c.Request().Context(), ruleSetID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}

// GetRule handles GET /api/rule-sets/:ruleSetId/rules/:id — returns the
// node's fully expanded nested tree plus its validation result.
func (h *RuleHandler) GetRule(c echo.Context) error {
	ruleSetID, err := parsePathUUID(c, "ruleSetId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}
	ruleID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}

	tree, result, err := h.app.GetRule(c.Request().Context(), ruleSetID, ruleID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessWithValidation(tree, result))
}
