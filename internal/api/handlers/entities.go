// Package handlers holds the Echo handler functions for every SPEC_FULL.md
// operation, grouped by the entity or concern they write/read.
//
// Grounded on the teacher's internal/api/handlers/schedule.go: one request
// struct per write op with `json`/`validate` tags, c.Bind + uuid.Parse at
// the top, a thin call into the application layer, and api.SuccessResponse/
// api.ErrorResponseFromErr for the envelope.
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/johannesbremer/praxisplaner/internal/api"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/service"
)

// EntityHandler handles CRUD for Practitioner, Location, AppointmentType,
// and BaseSchedule — the four entity kinds that §6 describes with the same
// implicit-draft write shape.
type EntityHandler struct {
	app *service.App
}

// NewEntityHandler wraps app for entity CRUD handlers.
func NewEntityHandler(app *service.App) *EntityHandler {
	return &EntityHandler{app: app}
}

func parsePathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// sourceRuleSetID reads the optional ?ruleSetId= query param a write
// request may supply to fork from a specific saved set instead of the
// practice's current active set.
func sourceRuleSetID(c echo.Context) (uuid.UUID, error) {
	raw := c.QueryParam("ruleSetId")
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

func writeErr(c echo.Context, err error) error {
	resp := api.ErrorResponseFromErr(err)
	status := http.StatusInternalServerError
	if resp.Error != nil {
		status = api.HTTPStatusForKind(resp.Error.Code)
	}
	return c.JSON(status, resp)
}

// --- Practitioner ---

// PractitionerRequest is the request body for create/update.
type PractitionerRequest struct {
	Name string   `json:"name" validate:"required"`
	Tags []string `json:"tags,omitempty"`
}

// CreatePractitioner handles POST /api/practices/:practiceId/practitioners
func (h *EntityHandler) CreatePractitioner(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req PractitionerRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.CreatePractitioner(c.Request().Context(), practiceID, srcRuleSetID, req.Name, req.Tags)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, api.SuccessResponse(res))
}

// UpdatePractitioner handles PUT /api/practices/:practiceId/practitioners/:id
func (h *EntityHandler) UpdatePractitioner(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	practitionerID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req PractitionerRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.UpdatePractitioner(c.Request().Context(), practiceID, srcRuleSetID, practitionerID, req.Name, req.Tags)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// DeletePractitioner handles DELETE /api/practices/:practiceId/practitioners/:id
func (h *EntityHandler) DeletePractitioner(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	practitionerID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	res, err := h.app.DeletePractitioner(c.Request().Context(), practiceID, srcRuleSetID, practitionerID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// ListPractitioners handles GET /api/rule-sets/:ruleSetId/practitioners
func (h *EntityHandler) ListPractitioners(c echo.Context) error {
	ruleSetID, err := parsePathUUID(c, "ruleSetId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}
	list, err := h.app.ListPractitioners(c.Request().Context(), ruleSetID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}

// --- Location ---

// LocationRequest is the request body for create/update.
type LocationRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateLocation handles POST /api/practices/:practiceId/locations
func (h *EntityHandler) CreateLocation(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.CreateLocation(c.Request().Context(), practiceID, srcRuleSetID, req.Name)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, api.SuccessResponse(res))
}

// UpdateLocation handles PUT /api/practices/:practiceId/locations/:id
func (h *EntityHandler) UpdateLocation(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	locationID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.UpdateLocation(c.Request().Context(), practiceID, srcRuleSetID, locationID, req.Name)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// DeleteLocation handles DELETE /api/practices/:practiceId/locations/:id
func (h *EntityHandler) DeleteLocation(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	locationID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	res, err := h.app.DeleteLocation(c.Request().Context(), practiceID, srcRuleSetID, locationID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// ListLocations handles GET /api/rule-sets/:ruleSetId/locations
func (h *EntityHandler) ListLocations(c echo.Context) error {
	ruleSetID, err := parsePathUUID(c, "ruleSetId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}
	list, err := h.app.ListLocations(c.Request().Context(), ruleSetID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}

// --- AppointmentType ---

// AppointmentTypeRequest is the request body for create/update.
type AppointmentTypeRequest struct {
	Name                   string      `json:"name" validate:"required"`
	DurationMinutes        int         `json:"durationMinutes" validate:"required,gt=0"`
	AllowedPractitionerIDs []uuid.UUID `json:"allowedPractitionerIds,omitempty"`
}

// CreateAppointmentType handles POST /api/practices/:practiceId/appointment-types
func (h *EntityHandler) CreateAppointmentType(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req AppointmentTypeRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.CreateAppointmentType(c.Request().Context(), practiceID, srcRuleSetID, req.Name, req.DurationMinutes, req.AllowedPractitionerIDs)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, api.SuccessResponse(res))
}

// UpdateAppointmentType handles PUT /api/practices/:practiceId/appointment-types/:id
func (h *EntityHandler) UpdateAppointmentType(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	typeID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req AppointmentTypeRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.UpdateAppointmentType(c.Request().Context(), practiceID, srcRuleSetID, typeID, req.Name, req.DurationMinutes, req.AllowedPractitionerIDs)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// DeleteAppointmentType handles DELETE /api/practices/:practiceId/appointment-types/:id
func (h *EntityHandler) DeleteAppointmentType(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	typeID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	res, err := h.app.DeleteAppointmentType(c.Request().Context(), practiceID, srcRuleSetID, typeID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// ListAppointmentTypes handles GET /api/rule-sets/:ruleSetId/appointment-types
func (h *EntityHandler) ListAppointmentTypes(c echo.Context) error {
	ruleSetID, err := parsePathUUID(c, "ruleSetId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}
	list, err := h.app.ListAppointmentTypes(c.Request().Context(), ruleSetID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}

// --- BaseSchedule ---

// BaseScheduleRequest is the request body for create/update.
type BaseScheduleRequest struct {
	PractitionerID uuid.UUID            `json:"practitionerId" validate:"required"`
	LocationID     uuid.UUID            `json:"locationId" validate:"required"`
	DayOfWeek      int                  `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartTime      string               `json:"startTime" validate:"required"`
	EndTime        string               `json:"endTime" validate:"required"`
	BreakTimes     []entity.BreakWindow `json:"breakTimes,omitempty"`
}

func (req BaseScheduleRequest) toEntity(id uuid.UUID) entity.BaseSchedule {
	return entity.BaseSchedule{
		ID:             id,
		PractitionerID: req.PractitionerID,
		LocationID:     req.LocationID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakTimes:     req.BreakTimes,
	}
}

// CreateBaseSchedule handles POST /api/practices/:practiceId/base-schedules
func (h *EntityHandler) CreateBaseSchedule(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req BaseScheduleRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.CreateBaseSchedule(c.Request().Context(), practiceID, srcRuleSetID, req.toEntity(uuid.Nil))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, api.SuccessResponse(res))
}

// UpdateBaseSchedule handles PUT /api/practices/:practiceId/base-schedules/:id
func (h *EntityHandler) UpdateBaseSchedule(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	scheduleID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	var req BaseScheduleRequest
	if err := c.Bind(&req); err != nil {
		return writeErr(c, entity.ErrMismatch("invalid request body: "+err.Error()))
	}

	res, err := h.app.UpdateBaseSchedule(c.Request().Context(), practiceID, srcRuleSetID, req.toEntity(scheduleID))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// DeleteBaseSchedule handles DELETE /api/practices/:practiceId/base-schedules/:id
func (h *EntityHandler) DeleteBaseSchedule(c echo.Context) error {
	practiceID, err := parsePathUUID(c, "practiceId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid practiceId"))
	}
	scheduleID, err := parsePathUUID(c, "id")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid id"))
	}
	srcRuleSetID, err := sourceRuleSetID(c)
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}

	res, err := h.app.DeleteBaseSchedule(c.Request().Context(), practiceID, srcRuleSetID, scheduleID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(res))
}

// ListBaseSchedules handles GET /api/rule-sets/:ruleSetId/base-schedules
func (h *EntityHandler) ListBaseSchedules(c echo.Context) error {
	ruleSetID, err := parsePathUUID(c, "ruleSetId")
	if err != nil {
		return writeErr(c, entity.ErrMismatch("invalid ruleSetId"))
	}
	list, err := h.app.ListBaseSchedules(c.Request().Context(), ruleSetID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, api.SuccessResponse(list))
}
