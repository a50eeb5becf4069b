package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/johannesbremer/praxisplaner/internal/api"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/service"
	"github.com/johannesbremer/praxisplaner/internal/slotgen"
)

// EvaluationHandler handles §6's three read-through-the-rule-engine
// operations: list_available_dates, list_slots_for_day, list_available_slots.
type EvaluationHandler struct {
	app *service.App
}

// NewEvaluationHandler wraps app for evaluation handlers.
func NewEvaluationHandler(app *service.App) *EvaluationHandler {
	return &EvaluationHandler{app: app}
}

func parseDateParam(c echo.Context, name string) (entity.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return entity.Date{}, entity.ErrMismatch(name + " is required")
	}
	t, err := time.ParseInLocation("2006-01-02", raw, slotgen.PracticeLocation)
	if err != nil {
		return entity.Date{}, entity.ErrMismatch(name + " must be YYYY-MM-DD")
	}
	return t, nil
}

func optionalRuleSetID(c echo.Context) (*uuid.UUID, error) {
	raw := c.QueryParam("ruleSetId")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, entity.ErrMismatch("invalid ruleSetId")
	}
	return &id, nil
}

func evalContextFromQuery(c echo.Context) (service.EvalContext, error) {
	var ctx service.EvalContext
	typeID := c.QueryParam("appointmentTypeId")
	if typeID == "" {
		return ctx, entity.ErrMismatch("appointmentTypeId is required")
	}
	parsedType, err := uuid.Parse(typeID)
	if err != nil {
		return ctx, entity.ErrMismatch("invalid appointmentTypeId")
	}
	ctx.AppointmentTypeID = parsedType
	ctx.PatientIsNew = c.QueryParam("patientIsNew") == "true"
	ctx.IsSimulation = c.QueryParam("isSimulation") == "true"
	if raw := c.QueryParam("locationId"); raw != "" {
		locID, err := uuid.Parse(raw)
		if err != nil {
			return ctx, entity.ErrMismatch("invalid locationId")
		}
		ctx.LocationID = &locID
	}
	return ctx, nil
}

// ListAvailableDates handles GET /api/practices/:practiceId/available-dates
func (h *EvaluationHandler) ListAvailableDates(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	ruleSetID, err := optionalRuleSetID(c)
	if err != nil {
		return writeErr(c, err)
	}
	from, err := parseDateParam(c, "from")
	if err != nil {
		return writeErr(c, err)
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		return writeErr(c, err)
	}
	evalCtx, err := evalContextFromQuery(c)
	if err != nil {
		return writeErr(c, err)
	}

	dates, err := h.app.ListAvailableDates(c.Request().Context(), practiceID, ruleSetID, from, to, evalCtx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(dates))
}

// ListSlotsForDay handles GET /api/practices/:practiceId/slots
func (h *EvaluationHandler) ListSlotsForDay(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	ruleSetID, err := optionalRuleSetID(c)
	if err != nil {
		return writeErr(c, err)
	}
	date, err := parseDateParam(c, "date")
	if err != nil {
		return writeErr(c, err)
	}
	evalCtx, err := evalContextFromQuery(c)
	if err != nil {
		return writeErr(c, err)
	}

	result, err := h.app.ListSlotsForDay(c.Request().Context(), practiceID, ruleSetID, date, evalCtx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(result))
}

// ListAvailableSlots handles GET /api/practices/:practiceId/available-slots
func (h *EvaluationHandler) ListAvailableSlots(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	ruleSetID, err := optionalRuleSetID(c)
	if err != nil {
		return writeErr(c, err)
	}
	from, err := parseDateParam(c, "from")
	if err != nil {
		return writeErr(c, err)
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		return writeErr(c, err)
	}
	evalCtx, err := evalContextFromQuery(c)
	if err != nil {
		return writeErr(c, err)
	}

	result, err := h.app.ListAvailableSlots(c.Request().Context(), practiceID, ruleSetID, from, to, evalCtx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(result))
}

// Health handles GET /api/health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "UP"})
}
