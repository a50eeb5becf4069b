package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/johannesbremer/praxisplaner/internal/api/handlers"
	"github.com/johannesbremer/praxisplaner/internal/service"
)

// Router wraps an Echo instance configured with every SPEC_FULL.md HTTP
// route, grounded on the teacher's Router (middleware stack, grouped
// routes, Start/Shutdown shape) generalized from its single schedule
// group to the entity/rule/rule-set/evaluation route groups this spec
// needs.
type Router struct {
	echo *echo.Echo
}

// NewRouter builds a Router backed by app.
func NewRouter(app *service.App) *Router {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.PATCH},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	entityH := handlers.NewEntityHandler(app)
	ruleH := handlers.NewRuleHandler(app)
	ruleSetH := handlers.NewRuleSetHandler(app)
	evalH := handlers.NewEvaluationHandler(app)

	r := &Router{echo: e}
	r.registerRoutes(entityH, ruleH, ruleSetH, evalH)
	return r
}

func (r *Router) registerRoutes(
	entityH *handlers.EntityHandler,
	ruleH *handlers.RuleHandler,
	ruleSetH *handlers.RuleSetHandler,
	evalH *handlers.EvaluationHandler,
) {
	r.echo.GET("/api/health", handlers.Health)

	practices := r.echo.Group("/api/practices/:practiceId")

	practices.POST("/practitioners", entityH.CreatePractitioner)
	practices.PUT("/practitioners/:id", entityH.UpdatePractitioner)
	practices.DELETE("/practitioners/:id", entityH.DeletePractitioner)

	practices.POST("/locations", entityH.CreateLocation)
	practices.PUT("/locations/:id", entityH.UpdateLocation)
	practices.DELETE("/locations/:id", entityH.DeleteLocation)

	practices.POST("/appointment-types", entityH.CreateAppointmentType)
	practices.PUT("/appointment-types/:id", entityH.UpdateAppointmentType)
	practices.DELETE("/appointment-types/:id", entityH.DeleteAppointmentType)

	practices.POST("/base-schedules", entityH.CreateBaseSchedule)
	practices.PUT("/base-schedules/:id", entityH.UpdateBaseSchedule)
	practices.DELETE("/base-schedules/:id", entityH.DeleteBaseSchedule)

	practices.POST("/rules", ruleH.CreateRule)
	practices.PUT("/rules/:id", ruleH.UpdateRule)
	practices.DELETE("/rules/:id", ruleH.DeleteRule)

	practices.POST("/draft/save", ruleSetH.SaveDraft)
	practices.POST("/draft/discard", ruleSetH.DiscardDraft)
	practices.GET("/draft", ruleSetH.GetDraft)
	practices.POST("/rule-sets/:id/activate", ruleSetH.SetActiveRuleSet)
	practices.GET("/rule-sets/active", ruleSetH.GetActiveRuleSet)
	practices.GET("/rule-sets/saved", ruleSetH.ListSavedRuleSets)
	practices.GET("/rule-sets", ruleSetH.ListAllRuleSets)
	practices.GET("/version-history", ruleSetH.VersionHistory)

	practices.GET("/available-dates", evalH.ListAvailableDates)
	practices.GET("/slots", evalH.ListSlotsForDay)
	practices.GET("/available-slots", evalH.ListAvailableSlots)

	ruleSets := r.echo.Group("/api/rule-sets/:ruleSetId")
	ruleSets.GET("/practitioners", entityH.ListPractitioners)
	ruleSets.GET("/locations", entityH.ListLocations)
	ruleSets.GET("/appointment-types", entityH.ListAppointmentTypes)
	ruleSets.GET("/base-schedules", entityH.ListBaseSchedules)
	ruleSets.GET("/rules", ruleH.ListRules)
	ruleSets.GET("/rules/:id", ruleH.GetRule)
}

// Start starts the HTTP server.
func (r *Router) Start(addr string) error {
	return r.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
