package payments

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/config"
	"github.com/ManuelReschke/PayFox/internal/pkg/normalize"
)

const (
	ApplicationFeePercent = 2

	InvoiceStatusDraft = "draft"
	InvoiceStatusOpen  = "open"

	collectionMethodSendInvoice = "send_invoice"
	dueDateLayout               = "2006-01-02"
)

// Strategy names the way an invoice's product and customer are resolved.
type Strategy int

const (
	NewProductNewCustomer Strategy = iota
	NewProductExistingCustomer
	ExistingProductNewCustomer
	ExistingProductExistingCustomer
)

func (s Strategy) String() string {
	switch s {
	case NewProductNewCustomer:
		return "new_product_new_customer"
	case NewProductExistingCustomer:
		return "new_product_existing_customer"
	case ExistingProductNewCustomer:
		return "existing_product_new_customer"
	case ExistingProductExistingCustomer:
		return "existing_product_existing_customer"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// InvoiceTerms are shared by every plan variant.
type InvoiceTerms struct {
	// Account is the connected account the invoice is issued from.
	Account      string
	UnitAmount   int64
	Currency     string
	DaysUntilDue int64
	Draft        bool
	AutoAdvance  bool
}

// ApplicationFee returns the platform fee for the terms' unit amount.
func (t InvoiceTerms) ApplicationFee() int64 {
	return ApplicationFee(t.UnitAmount)
}

// InvoicePlan is one of NewProductNewCustomerPlan,
// NewProductExistingCustomerPlan, ExistingProductNewCustomerPlan or
// ExistingProductExistingCustomerPlan.
type InvoicePlan interface {
	Strategy() Strategy
	Terms() InvoiceTerms
	isInvoicePlan()
}

type NewProductNewCustomerPlan struct {
	InvoiceTerms
	Product  models.NewProduct
	Customer models.NewCustomer
}

type NewProductExistingCustomerPlan struct {
	InvoiceTerms
	Product    models.NewProduct
	CustomerID string
}

type ExistingProductNewCustomerPlan struct {
	InvoiceTerms
	ProductID string
	Customer  models.NewCustomer
}

// ExistingProductExistingCustomerPlan resolves its price from the configured
// premade product and account, not from ProductID.
type ExistingProductExistingCustomerPlan struct {
	InvoiceTerms
	ProductID  string
	CustomerID string
}

func (p *NewProductNewCustomerPlan) Strategy() Strategy { return NewProductNewCustomer }
func (p *NewProductNewCustomerPlan) Terms() InvoiceTerms { return p.InvoiceTerms }
func (p *NewProductNewCustomerPlan) isInvoicePlan()      {}

func (p *NewProductExistingCustomerPlan) Strategy() Strategy { return NewProductExistingCustomer }
func (p *NewProductExistingCustomerPlan) Terms() InvoiceTerms { return p.InvoiceTerms }
func (p *NewProductExistingCustomerPlan) isInvoicePlan()      {}

func (p *ExistingProductNewCustomerPlan) Strategy() Strategy { return ExistingProductNewCustomer }
func (p *ExistingProductNewCustomerPlan) Terms() InvoiceTerms { return p.InvoiceTerms }
func (p *ExistingProductNewCustomerPlan) isInvoicePlan()      {}

func (p *ExistingProductExistingCustomerPlan) Strategy() Strategy {
	return ExistingProductExistingCustomer
}
func (p *ExistingProductExistingCustomerPlan) Terms() InvoiceTerms { return p.InvoiceTerms }
func (p *ExistingProductExistingCustomerPlan) isInvoicePlan()      {}

// ApplicationFee returns 2% of unitAmount rounded down.
func ApplicationFee(unitAmount int64) int64 {
	return unitAmount * ApplicationFeePercent / 100
}

// DaysUntilDue returns the whole days from now until the start of the due
// date in now's location, rounded down.
func DaysUntilDue(dueDate string, now time.Time) (int64, error) {
	due, err := time.ParseInLocation(dueDateLayout, dueDate, now.Location())
	if err != nil {
		return 0, apperror.Validation("due_date", "due_date must be formatted as YYYY-MM-DD")
	}

	days := int64(math.Floor(due.Sub(now).Hours() / 24))
	if days < 0 {
		return 0, apperror.Validation("due_date", "due_date must not be in the past")
	}
	return days, nil
}

// NewInvoicePlan validates req and resolves it into the plan variant
// matching the presence of customer_id and product_id.
func NewInvoicePlan(req models.InvoiceRequest, now time.Time) (InvoicePlan, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation("invoice", err.Error())
	}

	req.WithIssuer()
	data, err := normalize.Map(req)
	if err != nil {
		return nil, apperror.Internal("invoice", err)
	}
	account, ok := normalize.Lookup(data, "issuer", "account")
	if !ok || account == "" {
		return nil, apperror.Validation("invoice", "stripe_account is required")
	}

	days, err := DaysUntilDue(req.DueDate, now)
	if err != nil {
		return nil, err
	}

	terms := InvoiceTerms{
		Account:      account,
		UnitAmount:   req.UnitAmount,
		Currency:     req.Currency,
		DaysUntilDue: days,
		Draft:        req.Draft,
		AutoAdvance:  req.AutoAdvance == nil || *req.AutoAdvance,
	}

	hasProduct := req.ProductID != nil
	hasCustomer := req.CustomerID != nil

	if !hasProduct && req.NewProduct == nil {
		return nil, apperror.Validation("invoice", "new_product is required when product_id is absent")
	}
	if !hasCustomer && req.NewCustomer == nil {
		return nil, apperror.Validation("invoice", "new_customer is required when customer_id is absent")
	}

	switch {
	case !hasProduct && !hasCustomer:
		return &NewProductNewCustomerPlan{InvoiceTerms: terms, Product: *req.NewProduct, Customer: *req.NewCustomer}, nil
	case !hasProduct && hasCustomer:
		return &NewProductExistingCustomerPlan{InvoiceTerms: terms, Product: *req.NewProduct, CustomerID: *req.CustomerID}, nil
	case hasProduct && !hasCustomer:
		return &ExistingProductNewCustomerPlan{InvoiceTerms: terms, ProductID: *req.ProductID, Customer: *req.NewCustomer}, nil
	default:
		return &ExistingProductExistingCustomerPlan{InvoiceTerms: terms, ProductID: *req.ProductID, CustomerID: *req.CustomerID}, nil
	}
}

// InvoiceResult summarizes a created invoice.
type InvoiceResult struct {
	InvoiceID string `json:"invoice"`
	ItemID    string `json:"invoice_item"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Strategy  string `json:"strategy"`
}

// InvoiceService runs invoice plans against the gateway.
type InvoiceService struct {
	gateway Gateway
	cfg     *config.Config
	now     func() time.Time
}

func NewInvoiceService(gateway Gateway, cfg *config.Config) *InvoiceService {
	return &InvoiceService{gateway: gateway, cfg: cfg, now: time.Now}
}

// Plan resolves req against the current time.
func (s *InvoiceService) Plan(req models.InvoiceRequest) (InvoicePlan, error) {
	return NewInvoicePlan(req, s.now())
}

// Create performs the remote creates for plan in order, feeding each id
// into the next step, then finalizes the invoice unless a draft was asked
// for. A failed step stops the sequence; resources created by earlier steps
// are left in place.
func (s *InvoiceService) Create(ctx context.Context, plan InvoicePlan) (*InvoiceResult, error) {
	terms := plan.Terms()
	run := &invoiceRun{service: s, strategy: plan.Strategy(), terms: terms}

	var priceID, customerID string
	var err error

	switch p := plan.(type) {
	case *NewProductNewCustomerPlan:
		if priceID, err = run.newPrice(ctx, p.Product); err != nil {
			return nil, err
		}
		if customerID, err = run.newCustomer(ctx, p.Customer); err != nil {
			return nil, err
		}
	case *NewProductExistingCustomerPlan:
		if priceID, err = run.newPrice(ctx, p.Product); err != nil {
			return nil, err
		}
		customerID = p.CustomerID
	case *ExistingProductNewCustomerPlan:
		if priceID, err = run.firstPrice(ctx, p.ProductID, terms.Account); err != nil {
			return nil, err
		}
		if customerID, err = run.newCustomer(ctx, p.Customer); err != nil {
			return nil, err
		}
	case *ExistingProductExistingCustomerPlan:
		if priceID, err = run.firstPrice(ctx, s.cfg.PremadeProductID, s.cfg.PremadeAccountID); err != nil {
			return nil, err
		}
		customerID = p.CustomerID
	default:
		return nil, apperror.Internal("invoice", fmt.Errorf("unknown invoice plan %T", plan))
	}

	invoice, err := run.invoice(ctx, customerID)
	if err != nil {
		return nil, err
	}

	item, err := run.item(ctx, customerID, priceID, invoice.ID)
	if err != nil {
		return nil, err
	}

	status := InvoiceStatusDraft
	if !terms.Draft {
		if _, err := s.gateway.FinalizeInvoice(ctx, terms.Account, invoice.ID); err != nil {
			return nil, run.fail("finalize_invoice", err)
		}
		status = InvoiceStatusOpen
	}

	log.Infof("[Invoice] Created %s invoice %s on %s via %s", status, invoice.ID, terms.Account, run.strategy)
	return &InvoiceResult{
		InvoiceID: invoice.ID,
		ItemID:    item.ID,
		Amount:    item.Amount,
		Status:    status,
		Strategy:  run.strategy.String(),
	}, nil
}

// invoiceRun carries the per-call state of Create.
type invoiceRun struct {
	service  *InvoiceService
	strategy Strategy
	terms    InvoiceTerms
}

func (r *invoiceRun) fail(step string, err error) error {
	op := r.strategy.String() + "/" + step
	log.Errorf("[Invoice] %s failed: %v", op, err)
	return remoteError(op, err)
}

func (r *invoiceRun) newPrice(ctx context.Context, np models.NewProduct) (string, error) {
	productParams := &stripe.ProductParams{
		Name:        stripe.String(np.Name),
		Description: np.Description,
		Active:      np.Active,
	}
	productParams.SetStripeAccount(r.terms.Account)

	product, err := r.service.gateway.CreateProduct(ctx, productParams)
	if err != nil {
		return "", r.fail("create_product", err)
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(r.terms.UnitAmount),
		Currency:   stripe.String(r.terms.Currency),
	}
	priceParams.SetStripeAccount(r.terms.Account)

	price, err := r.service.gateway.CreatePrice(ctx, priceParams)
	if err != nil {
		return "", r.fail("create_price", err)
	}
	return price.ID, nil
}

func (r *invoiceRun) firstPrice(ctx context.Context, productID, account string) (string, error) {
	params := &stripe.PriceListParams{Product: stripe.String(productID)}
	params.Limit = stripe.Int64(1)
	params.Single = true
	params.SetStripeAccount(account)

	prices, err := r.service.gateway.ListPrices(ctx, params)
	if err != nil {
		return "", r.fail("first_price", err)
	}
	if len(prices) == 0 {
		return "", apperror.NotFound(r.strategy.String()+"/first_price",
			fmt.Sprintf("no price found for product %s", productID))
	}
	return prices[0].ID, nil
}

func (r *invoiceRun) newCustomer(ctx context.Context, nc models.NewCustomer) (string, error) {
	params := &stripe.CustomerParams{
		Name:        stripe.String(nc.Name),
		Email:       stripe.String(nc.Email),
		Description: nc.Description,
	}
	params.SetStripeAccount(r.terms.Account)

	customer, err := r.service.gateway.CreateCustomer(ctx, params)
	if err != nil {
		return "", r.fail("create_customer", err)
	}
	return customer.ID, nil
}

func (r *invoiceRun) invoice(ctx context.Context, customerID string) (*stripe.Invoice, error) {
	params := &stripe.InvoiceParams{
		Customer:             stripe.String(customerID),
		CollectionMethod:     stripe.String(collectionMethodSendInvoice),
		ApplicationFeeAmount: stripe.Int64(r.terms.ApplicationFee()),
		DaysUntilDue:         stripe.Int64(r.terms.DaysUntilDue),
		AutoAdvance:          stripe.Bool(r.terms.AutoAdvance),
	}
	params.SetStripeAccount(r.terms.Account)

	invoice, err := r.service.gateway.CreateInvoice(ctx, params)
	if err != nil {
		return nil, r.fail("create_invoice", err)
	}
	return invoice, nil
}

func (r *invoiceRun) item(ctx context.Context, customerID, priceID, invoiceID string) (*stripe.InvoiceItem, error) {
	params := &stripe.InvoiceItemParams{
		Customer: stripe.String(customerID),
		Invoice:  stripe.String(invoiceID),
		Pricing: &stripe.InvoiceItemPricingParams{
			Price: stripe.String(priceID),
		},
	}
	params.SetStripeAccount(r.terms.Account)

	item, err := r.service.gateway.CreateInvoiceItem(ctx, params)
	if err != nil {
		return nil, r.fail("create_invoice_item", err)
	}
	return item, nil
}

// Update changes description, due date and footer of an invoice after
// checking that it has line items on the connected account.
func (s *InvoiceService) Update(ctx context.Context, req models.UpdateInvoiceRequest) (*stripe.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation("update_invoice", err.Error())
	}

	listParams := &stripe.InvoiceItemListParams{Invoice: stripe.String(req.ID)}
	listParams.Single = true
	listParams.SetStripeAccount(req.StripeAccount)

	items, err := s.gateway.ListInvoiceItems(ctx, listParams)
	if err != nil {
		return nil, remoteError("update_invoice/list_items", err)
	}
	if len(items) == 0 {
		return nil, apperror.NotFound("update_invoice", fmt.Sprintf("invoice %s has no items", req.ID))
	}

	params := &stripe.InvoiceParams{
		Description: req.Description,
		Footer:      req.Footer,
	}
	if req.DueDate != nil {
		due, err := time.ParseInLocation(dueDateLayout, *req.DueDate, s.now().Location())
		if err != nil {
			return nil, apperror.Validation("update_invoice", "due_date must be formatted as YYYY-MM-DD")
		}
		params.DueDate = stripe.Int64(due.Unix())
	}
	params.SetStripeAccount(req.StripeAccount)

	invoice, err := s.gateway.UpdateInvoice(ctx, req.ID, params)
	if err != nil {
		return nil, remoteError("update_invoice", err)
	}
	return invoice, nil
}

// Delete removes a draft invoice. The platform rejects other statuses.
func (s *InvoiceService) Delete(ctx context.Context, req models.DeleteInvoiceRequest) error {
	if err := req.Validate(); err != nil {
		return apperror.Validation("delete_invoice", err.Error())
	}
	if err := s.gateway.DeleteInvoice(ctx, req.ConnectedAccountID, req.InvoiceID); err != nil {
		return remoteError("delete_invoice", err)
	}
	log.Infof("[Invoice] Deleted invoice %s on %s", req.InvoiceID, req.ConnectedAccountID)
	return nil
}
