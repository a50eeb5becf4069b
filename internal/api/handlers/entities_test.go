package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository/memory"
	"github.com/johannesbremer/praxisplaner/internal/service"
)

func newTestEntityHandler(t *testing.T) (*EntityHandler, *entity.Practice) {
	t.Helper()
	db := memory.NewDatabase(memory.NewStore())
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	p := &entity.Practice{ID: uuid.New(), Name: "Test Practice", CreatedAt: entity.Now(), UpdatedAt: entity.Now()}
	require.NoError(t, db.PracticeRepository().Create(ctx, p))
	rs := &entity.RuleSet{ID: uuid.New(), PracticeID: p.ID, Version: 1, Saved: true, CreatedAt: entity.Now()}
	require.NoError(t, db.RuleSetRepository().Create(ctx, rs))
	require.NoError(t, db.PracticeRepository().SetActiveRuleSet(ctx, p.ID, rs.ID))
	p.CurrentActiveRuleSetID = &rs.ID

	return NewEntityHandler(service.NewApp(db)), p
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeJSON(rec *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

func TestCreatePractitionerHandlerReturns201WithEntityID(t *testing.T) {
	h, practice := newTestEntityHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"name":"Dr. A","tags":["gp"]}`)
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.CreatePractitioner(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data"`)
}

func TestCreatePractitionerHandlerRejectsMalformedPracticeID(t *testing.T) {
	h, _ := newTestEntityHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"name":"Dr. A"}`)
	c.SetParamNames("practiceId")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.CreatePractitioner(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(entity.KindMismatch))
}

func TestCreatePractitionerHandlerRejectsMalformedBody(t *testing.T) {
	h, practice := newTestEntityHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/", `{"name":`)
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.CreatePractitioner(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePractitionerHandlerRejectsMalformedSourceRuleSetID(t *testing.T) {
	h, practice := newTestEntityHandler(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/?ruleSetId=not-a-uuid", `{"name":"Dr. A"}`)
	c.SetParamNames("practiceId")
	c.SetParamValues(practice.ID.String())

	require.NoError(t, h.CreatePractitioner(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPractitionersHandlerReturnsCreatedEntities(t *testing.T) {
	h, practice := newTestEntityHandler(t)
	e := echo.New()

	createCtx, createRec := newJSONContext(e, http.MethodPost, "/", `{"name":"Dr. A"}`)
	createCtx.SetParamNames("practiceId")
	createCtx.SetParamValues(practice.ID.String())
	require.NoError(t, h.CreatePractitioner(createCtx))
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created struct {
		Data struct {
			RuleSetID uuid.UUID
		}
	}
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))

	listCtx, listRec := newJSONContext(e, http.MethodGet, "/", "")
	listCtx.SetParamNames("ruleSetId")
	listCtx.SetParamValues(created.Data.RuleSetID.String())

	require.NoError(t, h.ListPractitioners(listCtx))
	assert.Equal(t, http.StatusOK, listRec.Code)
	assert.Contains(t, listRec.Body.String(), "Dr. A")
}
