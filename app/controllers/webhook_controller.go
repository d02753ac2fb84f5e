package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
)

// EventAcceptor queues a raw webhook body for a stream.
type EventAcceptor interface {
	Accept(ctx context.Context, stream string, body []byte) (string, error)
}

// DeadLetterLister lists webhook jobs the queue gave up on.
type DeadLetterLister interface {
	DeadLetters(ctx context.Context, limit int64) ([]*jobqueue.Job, error)
}

// WebhookController acknowledges webhook deliveries and hands them to the queue
type WebhookController struct {
	acceptor    EventAcceptor
	deadLetters DeadLetterLister
}

func NewWebhookController(acceptor EventAcceptor, deadLetters DeadLetterLister) *WebhookController {
	return &WebhookController{acceptor: acceptor, deadLetters: deadLetters}
}

// HandleStatus is the liveness check of the webhook receiver.
func (wc *WebhookController) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Running"})
}

func (wc *WebhookController) HandleInvoiceEvent(c *fiber.Ctx) error {
	return wc.accept(c, models.WEBHOOK_STREAM_INVOICE)
}

func (wc *WebhookController) HandleTransactionEvent(c *fiber.Ctx) error {
	return wc.accept(c, models.WEBHOOK_STREAM_TRANSACTION)
}

func (wc *WebhookController) accept(c *fiber.Ctx, stream string) error {
	jobID, err := wc.acceptor.Accept(c.UserContext(), stream, c.Body())
	if err != nil {
		return sendError(c, err)
	}
	return sendSuccess(c, fiber.StatusAccepted, "Successfully received event", fiber.Map{
		"job_id": jobID,
	})
}

// HandleDeadLetters lists the newest dead-lettered webhook jobs.
func (wc *WebhookController) HandleDeadLetters(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 50))

	jobs, err := wc.deadLetters.DeadLetters(c.UserContext(), limit)
	if err != nil {
		return sendError(c, apperror.Internal("dead_letters", err))
	}

	items := make([]fiber.Map, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, fiber.Map{
			"id":          job.ID,
			"stream":      job.Payload["stream"],
			"error":       job.ErrorMsg,
			"retry_count": job.RetryCount,
			"created_at":  job.CreatedAt,
			"updated_at":  job.UpdatedAt,
		})
	}
	return sendSuccess(c, fiber.StatusOK, "Dead-lettered events", fiber.Map{
		"count": len(items),
		"jobs":  items,
	})
}
