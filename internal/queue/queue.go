package queue

import (
	"context"
	"errors"
	"log/slog"

	"whatsapp_dashboard/internal/models"
)

// ErrClosed is returned when publishing to a closed queue.
var ErrClosed = errors.New("queue closed")

type JobKind string

const (
	JobCampaign         JobKind = "campaign"
	JobNotificationTest JobKind = "notification_test"
)

// Job is one unit of outbound WhatsApp work.
type Job struct {
	Kind       JobKind          `json:"kind"`
	CampaignID string           `json:"campaign_id,omitempty"`
	RuleID     string           `json:"rule_id,omitempty"`
	Instance   string           `json:"instance"`
	Recipients []string         `json:"recipients"`
	Messages   []models.Message `json:"messages"`
}

type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// Handler processes one job. A returned error is logged; jobs are not redelivered.
type Handler func(ctx context.Context, job Job) error

type Consumer interface {
	Consume(ctx context.Context, handle Handler) error
}

// MemoryQueue is the in-process queue used when no broker is configured.
type MemoryQueue struct {
	jobs chan Job
	done chan struct{}
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan Job, size), done: make(chan struct{})}
}

func (q *MemoryQueue) Publish(ctx context.Context, job Job) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume blocks, handling jobs one at a time until ctx is done or the queue is closed.
func (q *MemoryQueue) Consume(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case job := <-q.jobs:
			if err := handle(ctx, job); err != nil {
				slog.Error("dispatch job failed", "kind", job.Kind, "campaign_id", job.CampaignID, "rule_id", job.RuleID, "error", err)
			}
		}
	}
}

func (q *MemoryQueue) Close() error {
	select {
	case <-q.done:
	default:
		close(q.done)
	}
	return nil
}
