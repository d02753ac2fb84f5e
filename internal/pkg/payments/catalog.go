package payments

import (
	"context"

	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
)

// ProductResult is the product created by Catalog.CreateProduct with the
// unit amount of its price.
type ProductResult struct {
	ID          string `json:"id"`
	PriceID     string `json:"price_id"`
	Price       int64  `json:"price"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Catalog creates customers and products on connected accounts.
type Catalog struct {
	gateway Gateway
}

func NewCatalog(gateway Gateway) *Catalog {
	return &Catalog{gateway: gateway}
}

func (c *Catalog) CreateCustomer(ctx context.Context, req models.CustomerRequest) (*stripe.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation("create_customer", err.Error())
	}

	params := &stripe.CustomerParams{
		Name:        stripe.String(req.Name),
		Email:       stripe.String(req.Email),
		Description: req.Description,
		Phone:       req.Phone,
	}
	params.SetStripeAccount(req.StripeAccount)

	customer, err := c.gateway.CreateCustomer(ctx, params)
	if err != nil {
		return nil, remoteError("create_customer", err)
	}
	return customer, nil
}

// CreateProduct creates the product and its price.
func (c *Catalog) CreateProduct(ctx context.Context, req models.ProductRequest) (*ProductResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation("create_product", err.Error())
	}

	productParams := &stripe.ProductParams{
		Name:        stripe.String(req.Name),
		Description: req.Description,
		Active:      req.Active,
	}
	productParams.SetStripeAccount(req.StripeAccount)

	product, err := c.gateway.CreateProduct(ctx, productParams)
	if err != nil {
		return nil, remoteError("create_product/product", err)
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(req.UnitAmount),
		Currency:   stripe.String(req.Currency),
	}
	priceParams.SetStripeAccount(req.StripeAccount)

	price, err := c.gateway.CreatePrice(ctx, priceParams)
	if err != nil {
		return nil, remoteError("create_product/price", err)
	}

	return &ProductResult{
		ID:          product.ID,
		PriceID:     price.ID,
		Price:       price.UnitAmount,
		Name:        product.Name,
		Description: product.Description,
	}, nil
}
