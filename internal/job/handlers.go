package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/johannesbremer/praxisplaner/internal/service"
	"github.com/johannesbremer/praxisplaner/internal/slotgen"
)

// JobHandlers processes pre-warm tasks off the asynq queue.
type JobHandlers struct {
	app *service.App
}

// NewJobHandlers wraps app for the worker side of the queue.
func NewJobHandlers(app *service.App) *JobHandlers {
	return &JobHandlers{app: app}
}

// RegisterHandlers registers every task type this system consumes.
func (h *JobHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSlotsPrewarm, h.HandleSlotsPrewarm)
}

// HandleSlotsPrewarm runs list_available_dates against the active rule set
// and discards the result; its only effect is whatever caching the
// repository layer performs underneath.
func (h *JobHandlers) HandleSlotsPrewarm(ctx context.Context, t *asynq.Task) error {
	var payload SlotsPrewarmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	from, err := time.ParseInLocation("2006-01-02", payload.From, slotgen.PracticeLocation)
	if err != nil {
		return fmt.Errorf("invalid from date: %w", asynq.SkipRetry)
	}
	to, err := time.ParseInLocation("2006-01-02", payload.To, slotgen.PracticeLocation)
	if err != nil {
		return fmt.Errorf("invalid to date: %w", asynq.SkipRetry)
	}

	dates, err := h.app.ListAvailableDates(ctx, payload.PracticeID, nil, from, to, service.EvalContext{
		AppointmentTypeID: payload.AppointmentTypeID,
	})
	if err != nil {
		log.Printf("slots prewarm failed: practice=%s: %v", payload.PracticeID, err)
		return fmt.Errorf("slots prewarm: %w", err)
	}

	log.Printf("slots prewarm completed: practice=%s, dates=%d", payload.PracticeID, len(dates))
	return nil
}
