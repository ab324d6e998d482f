package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"container_leads_backend/internal/events"
	"container_leads_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "notifications"

type Client struct {
	client *asynq.Client
	queue  string
}

// LeadNotificationEnqueuer hands a lead fan-out to the worker process.
type LeadNotificationEnqueuer interface {
	EnqueueLeadNotification(ctx context.Context, lead events.LeadCreated) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeadNotification queues one fan-out. The task is never retried.
func (c *Client) EnqueueLeadNotification(ctx context.Context, lead events.LeadCreated) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("scheduler client not configured")
	}

	task, err := NewLeadNotificationTask(lead)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// NewRedisClient opens a go-redis client with the same URL and TLS rules
// the queue uses.
func NewRedisClient(cfg config.SchedulerConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	opt.TLSConfig = tlsConfig(opt.TLSConfig, cfg.GetRedisTLSInsecure())
	return redis.NewClient(opt), nil
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueue(); q != "" {
		return q
	}
	return defaultQueue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig(opt.TLSConfig, tlsInsecure),
	}, nil
}

func tlsConfig(parsed *tls.Config, insecure bool) *tls.Config {
	if parsed != nil {
		clone := parsed.Clone()
		if insecure {
			clone.InsecureSkipVerify = true
		}
		return clone
	}
	if insecure {
		return &tls.Config{InsecureSkipVerify: true}
	}
	return nil
}
