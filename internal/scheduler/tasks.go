// Package scheduler bridges the submission queue to asynq: enqueues an
// immediate delivery task when a submission is queued, and runs the asynq
// server that processes those tasks. Without Redis the system degrades to the
// periodic worker sweep.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskSubmissionDeliver triggers one immediate delivery attempt for a queued
// submission.
const TaskSubmissionDeliver = "submission:deliver"

type submissionDeliverPayload struct {
	SubmissionID uuid.UUID `json:"submissionId"`
}

// NewSubmissionDeliverTask builds the deliver-now task for a submission.
func NewSubmissionDeliverTask(submissionID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(submissionDeliverPayload{SubmissionID: submissionID})
	if err != nil {
		return nil, fmt.Errorf("marshal deliver task payload: %w", err)
	}
	return asynq.NewTask(TaskSubmissionDeliver, payload), nil
}

func parseSubmissionDeliverPayload(task *asynq.Task) (uuid.UUID, error) {
	var payload submissionDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return uuid.Nil, fmt.Errorf("unmarshal deliver task payload: %w", err)
	}
	return payload.SubmissionID, nil
}
