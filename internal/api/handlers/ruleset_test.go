package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveRuleSetHandlerReturnsTheSavedActiveSet(t *testing.T) {
	entityH, practice := newTestEntityHandler(t)
	h := NewRuleSetHandler(entityH.app)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.GetActiveRuleSet(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), practice.CurrentActiveRuleSetID.String())
}

func TestGetActiveRuleSetHandlerRejectsMalformedPracticeID(t *testing.T) {
	entityH, _ := newTestEntityHandler(t)
	h := NewRuleSetHandler(entityH.app)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	c.SetParamNames("practiceId")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.GetActiveRuleSet(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDraftHandlerReturnsNilDataWhenNoDraftExists(t *testing.T) {
	entityH, practice := newTestEntityHandler(t)
	h := NewRuleSetHandler(entityH.app)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.GetDraft(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"data"`, "omitempty drops a nil data payload entirely rather than rendering null")
}

func TestSaveDraftThenDiscardDraftLifecycle(t *testing.T) {
	entityH, practice := newTestEntityHandler(t)
	ruleSetH := NewRuleSetHandler(entityH.app)
	e := echo.New()

	createCtx, createRec := newJSONContext(e, http.MethodPost, "/", `{"name":"Dr. A"}`)
	createCtx.SetParamNames("practiceId")
	createCtx.SetParamValues(practice.ID.String())
	require.NoError(t, entityH.CreatePractitioner(createCtx))
	require.Equal(t, http.StatusCreated, createRec.Code)

	draftCtx, draftRec := newJSONContext(e, http.MethodGet, "/", "")
	draftCtx.SetParamNames("practiceId")
	draftCtx.SetParamValues(practice.ID.String())
	require.NoError(t, ruleSetH.GetDraft(draftCtx))
	assert.Contains(t, draftRec.Body.String(), `"data"`, "the fork created by CreatePractitioner is a real draft")

	saveCtx, saveRec := newJSONContext(e, http.MethodPost, "/", `{"description":"added Dr. A","setAsActive":true}`)
	saveCtx.SetParamNames("practiceId")
	saveCtx.SetParamValues(practice.ID.String())
	require.NoError(t, ruleSetH.SaveDraft(saveCtx))
	assert.Equal(t, http.StatusOK, saveRec.Code)

	discardCtx, discardRec := newJSONContext(e, http.MethodPost, "/", "")
	discardCtx.SetParamNames("practiceId")
	discardCtx.SetParamValues(practice.ID.String())
	require.NoError(t, ruleSetH.DiscardDraft(discardCtx))
	assert.Equal(t, http.StatusNoContent, discardRec.Code, "discarding with no draft left (saving consumed it) is a no-op, not an error")
}

func TestListAllRuleSetsHandlerIncludesTheSeededActiveSet(t *testing.T) {
	entityH, practice := newTestEntityHandler(t)
	h := NewRuleSetHandler(entityH.app)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.ListAllRuleSets(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), practice.CurrentActiveRuleSetID.String())
}

func TestVersionHistoryHandlerRejectsMalformedPracticeID(t *testing.T) {
	entityH, _ := newTestEntityHandler(t)
	h := NewRuleSetHandler(entityH.app)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodGet, "/", "")
	c.SetParamNames("practiceId")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.VersionHistory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
