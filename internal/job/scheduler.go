// Package job implements the optional asynq-backed slot pre-warm task.
// This is a cache-warming side effect only: it calls the same read path
// the HTTP API exposes and discards the result, so its failure never
// affects the correctness of a direct list_available_dates/list_slots_for_day
// call.
//
// Grounded on the teacher's internal/job/scheduler.go (client/task-type/
// payload/Enqueue* shape) narrowed from its three job types to the one
// this spec actually needs.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeSlotsPrewarm is the only task type this system enqueues.
const TypeSlotsPrewarm = "slots:prewarm"

// JobScheduler enqueues pre-warm tasks onto Redis via asynq.
type JobScheduler struct {
	client *asynq.Client
}

// NewJobScheduler connects to redisAddr and verifies reachability.
func NewJobScheduler(redisAddr string) (*JobScheduler, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	if err := client.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &JobScheduler{client: client}, nil
}

// SlotsPrewarmPayload names the practice/date-window a pre-warm run covers.
type SlotsPrewarmPayload struct {
	PracticeID        uuid.UUID `json:"practice_id"`
	AppointmentTypeID uuid.UUID `json:"appointment_type_id"`
	From              string    `json:"from"`
	To                string    `json:"to"`
}

// EnqueueSlotsPrewarm schedules a pre-warm run for practiceID's active
// rule set over [from, to], both dates inclusive, for one appointment type.
func (s *JobScheduler) EnqueueSlotsPrewarm(ctx context.Context, practiceID, appointmentTypeID uuid.UUID, from, to string) (*asynq.TaskInfo, error) {
	payload := SlotsPrewarmPayload{PracticeID: practiceID, AppointmentTypeID: appointmentTypeID, From: from, To: to}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeSlotsPrewarm, payloadBytes)
	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(1), asynq.Timeout(1*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue slots prewarm job: %w", err)
	}
	return info, nil
}

// Close releases the scheduler's Redis connection.
func (s *JobScheduler) Close() error {
	return s.client.Close()
}
