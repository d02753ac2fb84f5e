package webhooks

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PayFox/internal/pkg/metrics"
)

// Enqueuer is the part of the job queue the dispatcher writes to.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// Dispatcher accepts raw webhook bodies and, on a queue worker, forwards the
// reduced payload of recognized events. Events with a provider id are
// forwarded at most once per stream when an event repository is set.
type Dispatcher struct {
	queue     Enqueuer
	forwarder Forwarder
	events    repository.WebhookEventRepository
	now       func() time.Time
}

func NewDispatcher(queue Enqueuer, forwarder Forwarder, events repository.WebhookEventRepository) *Dispatcher {
	return &Dispatcher{
		queue:     queue,
		forwarder: forwarder,
		events:    events,
		now:       time.Now,
	}
}

// Register installs the dispatcher as the queue handler for webhook jobs.
func (d *Dispatcher) Register(q *jobqueue.Queue) {
	q.RegisterHandler(jobqueue.JobTypeWebhookEvent, d.Handle)
}

// Accept enqueues body for the stream and returns the job id.
func (d *Dispatcher) Accept(ctx context.Context, stream string, body []byte) (string, error) {
	if stream != models.WEBHOOK_STREAM_INVOICE && stream != models.WEBHOOK_STREAM_TRANSACTION {
		return "", apperror.Validation("webhook/accept", fmt.Sprintf("unknown stream %q", stream))
	}

	payload := jobqueue.WebhookEventJobPayload{
		Stream:     stream,
		Body:       string(body),
		ReceivedAt: d.now(),
	}
	job, err := d.queue.EnqueueJob(ctx, jobqueue.JobTypeWebhookEvent, payload.ToMap())
	if err != nil {
		return "", apperror.Internal("webhook/enqueue", err)
	}
	return job.ID, nil
}

// Handle processes one queued webhook. Malformed bodies are permanent
// failures; forward errors are returned so the queue retries them.
func (d *Dispatcher) Handle(ctx context.Context, job *jobqueue.Job) error {
	payload, err := jobqueue.WebhookEventJobPayloadFromMap(job.Payload)
	if err != nil {
		return jobqueue.Permanent(fmt.Errorf("decode job payload: %w", err))
	}

	event, err := ParseEvent([]byte(payload.Body))
	if err != nil {
		metrics.WebhookEvent(payload.Stream, "", metrics.OutcomeFailed)
		return jobqueue.Permanent(err)
	}
	eventType := string(event.Type)

	fwd, err := Reduce(payload.Stream, event)
	if err != nil {
		metrics.WebhookEvent(payload.Stream, eventType, metrics.OutcomeFailed)
		return jobqueue.Permanent(err)
	}
	if fwd == nil {
		log.Debugf("[Webhook] Ignoring %s event %s on %s stream", eventType, event.ID, payload.Stream)
		metrics.WebhookEvent(payload.Stream, eventType, metrics.OutcomeIgnored)
		return nil
	}

	record, err := d.record(payload.Stream, event.ID, eventType)
	if err != nil {
		return err
	}
	if record.IsForwarded() {
		log.Infof("[Webhook] Event %s already forwarded, skipping", event.ID)
		metrics.WebhookEvent(payload.Stream, eventType, metrics.OutcomeDuplicate)
		return nil
	}

	if err := d.forwarder.Forward(ctx, fwd.Path, fwd.Payload); err != nil {
		log.Warnf("[Webhook] Forwarding %s event %s failed (attempt %d): %v", eventType, event.ID, job.RetryCount+1, err)
		metrics.WebhookEvent(payload.Stream, eventType, metrics.OutcomeError)
		if record != nil && record.ID != 0 {
			if merr := d.events.MarkFailed(record.ID, err.Error()); merr != nil {
				log.Errorf("[Webhook] Failed to record error for event %s: %v", event.ID, merr)
			}
		}
		return err
	}

	if record != nil && record.ID != 0 {
		if err := d.events.MarkForwarded(record.ID); err != nil {
			log.Errorf("[Webhook] Failed to mark event %s forwarded: %v", event.ID, err)
		}
	}
	log.Infof("[Webhook] Forwarded %s event %s to %s", eventType, event.ID, fwd.Path)
	metrics.WebhookEvent(payload.Stream, eventType, metrics.OutcomeForwarded)
	return nil
}

// record returns the bookkeeping row for the event, or nil when the event
// carries no id or no repository is configured.
func (d *Dispatcher) record(stream, eventID, eventType string) (*models.WebhookEvent, error) {
	if d.events == nil || eventID == "" {
		return nil, nil
	}
	_, stored, err := d.events.CreateIfNotExists(&models.WebhookEvent{
		Stream:          stream,
		ProviderEventID: eventID,
		EventType:       eventType,
	})
	if err != nil {
		return nil, fmt.Errorf("record webhook event %s: %w", eventID, err)
	}
	return stored, nil
}

// DeadLettered counts a webhook job the queue gave up on.
func DeadLettered(job *jobqueue.Job) {
	if job.Type != jobqueue.JobTypeWebhookEvent {
		return
	}
	stream, _ := job.Payload["stream"].(string)
	metrics.WebhookEvent(stream, "", metrics.OutcomeDead)
}
