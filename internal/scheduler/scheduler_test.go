package scheduler

import (
	"context"
	"errors"
	"testing"

	"container_leads_backend/internal/events"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	leads []events.LeadCreated
}

func (r *recordingNotifier) NotifyLead(_ context.Context, lead events.LeadCreated) {
	r.leads = append(r.leads, lead)
}

func TestLeadNotificationTaskCarriesEvent(t *testing.T) {
	lead := events.LeadCreated{
		BaseEvent:      events.NewBaseEvent(),
		OpportunityID:  uuid.New(),
		TrackingCode:   "CNT-2026-00042",
		ServiceType:    "storage",
		ContactName:    "Ana López",
		ContactPhone:   "+526621234567",
		EstimatedValue: decimal.NewFromInt(24000),
		Source:         "website",
	}

	task, err := NewLeadNotificationTask(lead)
	require.NoError(t, err)
	assert.Equal(t, TaskLeadNotification, task.Type())

	got, err := ParseLeadNotificationPayload(task)
	require.NoError(t, err)
	assert.Equal(t, lead.OpportunityID, got.OpportunityID)
	assert.Equal(t, lead.TrackingCode, got.TrackingCode)
	assert.True(t, lead.EstimatedValue.Equal(got.EstimatedValue))
}

func TestHandleLeadNotificationCallsNotifier(t *testing.T) {
	notifier := &recordingNotifier{}
	w := &Worker{notifier: notifier, log: logger.Discard()}

	task, err := NewLeadNotificationTask(events.LeadCreated{TrackingCode: "CNT-2026-00001"})
	require.NoError(t, err)

	require.NoError(t, w.handleLeadNotification(context.Background(), task))
	require.Len(t, notifier.leads, 1)
	assert.Equal(t, "CNT-2026-00001", notifier.leads[0].TrackingCode)
}

func TestHandleLeadNotificationSkipsRetryOnBadPayload(t *testing.T) {
	notifier := &recordingNotifier{}
	w := &Worker{notifier: notifier, log: logger.Discard()}

	err := w.handleLeadNotification(context.Background(), asynq.NewTask(TaskLeadNotification, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Empty(t, notifier.leads)
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(&config.Config{})
	assert.Error(t, err)
}

func TestQueueNameDefaults(t *testing.T) {
	assert.Equal(t, "notifications", queueName(&config.Config{}))
	assert.Equal(t, "leads", queueName(&config.Config{AsynqQueue: "leads"}))
}

func TestTLSConfigInsecure(t *testing.T) {
	assert.Nil(t, tlsConfig(nil, false))
	cfg := tlsConfig(nil, true)
	require.NotNil(t, cfg)
	assert.True(t, cfg.InsecureSkipVerify)
}
