package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
)

// PaymentController handles invoices and account stats
type PaymentController struct {
	invoices *payments.InvoiceService
	stats    *payments.StatsService
}

// NewPaymentController creates a new payment controller
func NewPaymentController(invoices *payments.InvoiceService, stats *payments.StatsService) *PaymentController {
	return &PaymentController{invoices: invoices, stats: stats}
}

// HandleCreateInvoice resolves the invoice variant and runs it.
func (pc *PaymentController) HandleCreateInvoice(c *fiber.Ctx) error {
	var req models.InvoiceRequest
	if err := parseBody(c, "create_invoice", &req); err != nil {
		return sendError(c, err)
	}

	plan, err := pc.invoices.Plan(req)
	if err != nil {
		return sendError(c, err)
	}

	result, err := pc.invoices.Create(c.UserContext(), plan)
	if err != nil {
		return sendError(c, err)
	}

	fiberlog.Infof("[Invoice] Created %s invoice %s (%s)", result.Status, result.InvoiceID, result.Strategy)
	return sendSuccess(c, fiber.StatusOK, "Successfully created invoice", result)
}

func (pc *PaymentController) HandleUpdateInvoice(c *fiber.Ctx) error {
	var req models.UpdateInvoiceRequest
	if err := parseBody(c, "update_invoice", &req); err != nil {
		return sendError(c, err)
	}

	invoice, err := pc.invoices.Update(c.UserContext(), req)
	if err != nil {
		return sendError(c, err)
	}

	return sendSuccess(c, fiber.StatusOK, "Successfully updated invoice", fiber.Map{
		"invoice":     invoice.ID,
		"status":      invoice.Status,
		"description": invoice.Description,
		"footer":      invoice.Footer,
		"due_date":    invoice.DueDate,
	})
}

func (pc *PaymentController) HandleDeleteInvoice(c *fiber.Ctx) error {
	var req models.DeleteInvoiceRequest
	if err := parseBody(c, "delete_invoice", &req); err != nil {
		return sendError(c, err)
	}

	if err := pc.invoices.Delete(c.UserContext(), req); err != nil {
		return sendError(c, err)
	}

	return sendSuccess(c, fiber.StatusOK, "Successfully deleted invoice", fiber.Map{
		"invoice": req.InvoiceID,
	})
}

// HandleGetStats returns the day-over-day summary of a connected account.
func (pc *PaymentController) HandleGetStats(c *fiber.Ctx) error {
	var req models.StatsRequest
	if err := parseBody(c, "stats", &req); err != nil {
		return sendError(c, err)
	}

	stats, err := pc.stats.Get(c.UserContext(), req)
	if err != nil {
		return sendError(c, err)
	}

	return sendSuccess(c, fiber.StatusOK, "Successfully retrieved stats", stats)
}
