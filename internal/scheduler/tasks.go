package scheduler

import (
	"encoding/json"

	"container_leads_backend/internal/events"

	"github.com/hibiken/asynq"
)

const TaskLeadNotification = "leads.notification.fanout"

// NewLeadNotificationTask carries the whole event so the worker never reads
// the database. MaxRetry is zero: the fan-out is fire-and-forget.
func NewLeadNotificationTask(lead events.LeadCreated) (*asynq.Task, error) {
	data, err := json.Marshal(lead)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadNotification, data, asynq.MaxRetry(0)), nil
}

func ParseLeadNotificationPayload(task *asynq.Task) (events.LeadCreated, error) {
	var lead events.LeadCreated
	if err := json.Unmarshal(task.Payload(), &lead); err != nil {
		return events.LeadCreated{}, err
	}
	return lead, nil
}
