package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
)

// CatalogController creates customers and products on connected accounts
type CatalogController struct {
	catalog *payments.Catalog
}

func NewCatalogController(catalog *payments.Catalog) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (cc *CatalogController) HandleCreateCustomer(c *fiber.Ctx) error {
	var req models.CustomerRequest
	if err := parseBody(c, "create_customer", &req); err != nil {
		return sendError(c, err)
	}

	customer, err := cc.catalog.CreateCustomer(c.UserContext(), req)
	if err != nil {
		return sendError(c, err)
	}

	return sendSuccess(c, fiber.StatusOK, "Successfully created customer", fiber.Map{
		"id":          customer.ID,
		"name":        customer.Name,
		"email":       customer.Email,
		"description": customer.Description,
		"phone":       customer.Phone,
	})
}

func (cc *CatalogController) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := parseBody(c, "create_product", &req); err != nil {
		return sendError(c, err)
	}

	product, err := cc.catalog.CreateProduct(c.UserContext(), req)
	if err != nil {
		return sendError(c, err)
	}

	return sendSuccess(c, fiber.StatusOK, "Successfully created product", product)
}
