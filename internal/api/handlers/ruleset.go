package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/johannesbremer/praxisplaner/internal/api"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/service"
)

// RuleSetHandler handles the §4.1 draft lifecycle (save/discard/activate)
// and the read operations over a practice's rule-set DAG.
type RuleSetHandler struct {
	app *service.App
}

// NewRuleSetHandler wraps app for rule-set lifecycle and read handlers.
func NewRuleSetHandler(app *service.App) *RuleSetHandler {
	return &RuleSetHandler{app: app}
}

// SaveDraftRequest is the request body for POST .../draft/save.
type SaveDraftRequest struct {
	Description string `json:"description"`
	SetAsActive bool   `json:"setAsActive"`
}

// SaveDraft handles POST /api/practices/:practiceId/draft/save
func (h *RuleSetHandler) SaveDraft(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}

	var req SaveDraftRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	ruleSetID, err := h.app.SaveDraft(c.Request().Context(), practiceID, req.Description, req.SetAsActive)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(map[string]interface{}{"ruleSetId": ruleSetID}))
}

// DiscardDraft handles POST /api/practices/:practiceId/draft/discard
func (h *RuleSetHandler) DiscardDraft(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}

	if err := h.app.DiscardDraft(c.Request().Context(), practiceID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusNoContent, nil)
}

// SetActiveRequest describes a {ruleSetId} body. SetActiveRuleSet does not
// bind it: the rule set to activate comes from the :id path parameter.
type SetActiveRequest struct {
	RuleSetID string `json:"ruleSetId" validate:"required,uuid"`
}

// SetActiveRuleSet handles POST /api/practices/:practiceId/rule-sets/:id/activate
func (h *RuleSetHandler) SetActiveRuleSet(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	ruleSetID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}

	if err := h.app.SetActiveRuleSet(c.Request().Context(), practiceID, ruleSetID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(map[string]interface{}{"ruleSetId": ruleSetID}))
}

// GetActiveRuleSet handles GET /api/practices/:practiceId/rule-sets/active
func (h *RuleSetHandler) GetActiveRuleSet(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	rs, err := h.app.GetActiveRuleSet(c.Request().Context(), practiceID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(rs))
}

// GetDraft handles GET /api/practices/:practiceId/draft
func (h *RuleSetHandler) GetDraft(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	rs, err := h.app.GetDraft(c.Request().Context(), practiceID)
	if err != nil {
		return writeErr(c, err)
	}
	if rs == nil {
		return c.JSON(http.StatusOK, api.SuccessResponse(nil))
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(rs))
}

// ListSavedRuleSets handles GET /api/practices/:practiceId/rule-sets/saved
func (h *RuleSetHandler) ListSavedRuleSets(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	list, err := h.app.ListSavedRuleSets(c.Request().Context(), practiceID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}

// ListAllRuleSets handles GET /api/practices/:practiceId/rule-sets
func (h *RuleSetHandler) ListAllRuleSets(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	list, err := h.app.ListAllRuleSets(c.Request().Context(), practiceID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}

// VersionHistory handles GET /api/practices/:practiceId/version-history
func (h *RuleSetHandler) VersionHistory(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	entries, err := h.app.VersionHistory(c.Request().Context(), practiceID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(entries))
}
