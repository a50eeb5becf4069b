package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johannesbremer/praxisplaner/internal/entity"
)

func newTestRuleHandler(t *testing.T) (*RuleHandler, *entity.Practice) {
	t.Helper()
	h, practice := newTestEntityHandler(t)
	return NewRuleHandler(h.app), practice
}

func TestCreateRuleHandlerReturns201ForAValidRootNode(t *testing.T) {
	h, practice := newTestRuleHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":"AND","enabled":true}`)
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.CreateRule(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data"`)
}

func TestCreateRuleHandlerRejectsUnknownNodeType(t *testing.T) {
	h, practice := newTestRuleHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":"NOT_A_NODE_TYPE","enabled":true}`)
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.CreateRule(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(entity.KindValidation))
}

func TestCreateRuleHandlerRejectsMalformedPracticeID(t *testing.T) {
	h, _ := newTestRuleHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":"AND"}`)
	c.SetParamNames("practiceId")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.CreateRule(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(entity.KindMismatch))
}

func TestCreateRuleHandlerRejectsMalformedBody(t *testing.T) {
	h, practice := newTestRuleHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":`)
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.CreateRule(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRuleHandlerTogglesEnabled(t *testing.T) {
	h, practice := newTestRuleHandler(t)
	e := echo.New()

	createCtx, createRec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":"AND","enabled":true}`)
	createCtx.SetParamNames("practiceId")
	createCtx.SetParamValues(practice.ID.String())
	require.NoError(t, h.CreateRule(createCtx))
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created struct {
		Data struct {
			EntityID  string
			RuleSetID string
		}
	}
	require.NoError(t, decodeJSON(createRec, &created))

	updateCtx, updateRec := newJSONContext(e, http.MethodPut,
		"/?ruleSetId="+created.Data.RuleSetID, `{"enabled":false}`)
	updateCtx.SetParamNames("practiceId", "id")
	updateCtx.SetParamValues(practice.ID.String(), created.Data.EntityID)

	require.NoError(t, h.UpdateRule(updateCtx))
	assert.Equal(t, http.StatusOK, updateRec.Code)
}

func TestDeleteRuleHandlerRemovesTheSubtree(t *testing.T) {
	h, practice := newTestRuleHandler(t)
	e := echo.New()

	createCtx, createRec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":"AND","enabled":true}`)
	createCtx.SetParamNames("practiceId")
	createCtx.SetParamValues(practice.ID.String())
	require.NoError(t, h.CreateRule(createCtx))
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created struct {
		Data struct {
			EntityID  string
			RuleSetID string
		}
	}
	require.NoError(t, decodeJSON(createRec, &created))

	deleteCtx, deleteRec := newJSONContext(e, http.MethodDelete, "/?ruleSetId="+created.Data.RuleSetID, "")
	deleteCtx.SetParamNames("practiceId", "id")
	deleteCtx.SetParamValues(practice.ID.String(), created.Data.EntityID)

	require.NoError(t, h.DeleteRule(deleteCtx))
	assert.Equal(t, http.StatusOK, deleteRec.Code)

	listCtx, listRec := newJSONContext(e, http.MethodGet, "/", "")
	listCtx.SetParamNames("ruleSetId")
	listCtx.SetParamValues(created.Data.RuleSetID)
	require.NoError(t, h.ListRules(listCtx))
	assert.NotContains(t, listRec.Body.String(), created.Data.EntityID)
}

func TestListRulesHandlerRejectsMalformedRuleSetID(t *testing.T) {
	h, _ := newTestRuleHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	c.SetParamNames("ruleSetId")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.ListRules(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRuleHandlerReturnsTreeAndValidationResult(t *testing.T) {
	h, practice := newTestRuleHandler(t)
	e := echo.New()

	createCtx, createRec := newJSONContext(e, http.MethodPost, "/", `{"nodeType":"AND","enabled":true}`)
	createCtx.SetParamNames("practiceId")
	createCtx.SetParamValues(practice.ID.String())
	require.NoError(t, h.CreateRule(createCtx))
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created struct {
		Data struct {
			EntityID  string
			RuleSetID string
		}
	}
	require.NoError(t, decodeJSON(createRec, &created))

	getCtx, getRec := newJSONContext(e, http.MethodGet, "/", "")
	getCtx.SetParamNames("ruleSetId", "id")
	getCtx.SetParamValues(created.Data.RuleSetID, created.Data.EntityID)

	require.NoError(t, h.GetRule(getCtx))
	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Contains(t, getRec.Body.String(), `"validation"`)
}
