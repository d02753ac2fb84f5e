package payments

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
	"github.com/ManuelReschke/PayFox/internal/pkg/metrics"
)

// StripeGateway implements Gateway on a Stripe API client built from the
// injected configuration.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	return &StripeGateway{api: client.New(cfg.StripeSecretKey, nil)}
}

func (g *StripeGateway) CreateToken(ctx context.Context, params *stripe.TokenParams) (*stripe.Token, error) {
	start := time.Now()
	params.Context = ctx
	token, err := g.api.Tokens.New(params)
	metrics.ObserveRemote("create_token", start, err)
	return token, err
}

func (g *StripeGateway) CreateAccount(ctx context.Context, params *stripe.AccountParams) (*stripe.Account, error) {
	start := time.Now()
	params.Context = ctx
	account, err := g.api.Accounts.New(params)
	metrics.ObserveRemote("create_account", start, err)
	return account, err
}

func (g *StripeGateway) CreateProduct(ctx context.Context, params *stripe.ProductParams) (*stripe.Product, error) {
	start := time.Now()
	params.Context = ctx
	product, err := g.api.Products.New(params)
	metrics.ObserveRemote("create_product", start, err)
	return product, err
}

func (g *StripeGateway) CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	start := time.Now()
	params.Context = ctx
	price, err := g.api.Prices.New(params)
	metrics.ObserveRemote("create_price", start, err)
	return price, err
}

func (g *StripeGateway) ListPrices(ctx context.Context, params *stripe.PriceListParams) ([]*stripe.Price, error) {
	start := time.Now()
	params.Context = ctx
	var out []*stripe.Price
	it := g.api.Prices.List(params)
	for it.Next() {
		out = append(out, it.Price())
	}
	metrics.ObserveRemote("list_prices", start, it.Err())
	return out, it.Err()
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	start := time.Now()
	params.Context = ctx
	customer, err := g.api.Customers.New(params)
	metrics.ObserveRemote("create_customer", start, err)
	return customer, err
}

func (g *StripeGateway) ListCustomers(ctx context.Context, params *stripe.CustomerListParams) ([]*stripe.Customer, error) {
	start := time.Now()
	params.Context = ctx
	var out []*stripe.Customer
	it := g.api.Customers.List(params)
	for it.Next() {
		out = append(out, it.Customer())
	}
	metrics.ObserveRemote("list_customers", start, it.Err())
	return out, it.Err()
}

func (g *StripeGateway) CreateInvoice(ctx context.Context, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	start := time.Now()
	params.Context = ctx
	invoice, err := g.api.Invoices.New(params)
	metrics.ObserveRemote("create_invoice", start, err)
	return invoice, err
}

func (g *StripeGateway) UpdateInvoice(ctx context.Context, id string, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	start := time.Now()
	params.Context = ctx
	invoice, err := g.api.Invoices.Update(id, params)
	metrics.ObserveRemote("update_invoice", start, err)
	return invoice, err
}

func (g *StripeGateway) FinalizeInvoice(ctx context.Context, account, id string) (*stripe.Invoice, error) {
	start := time.Now()
	params := &stripe.InvoiceFinalizeInvoiceParams{}
	params.Context = ctx
	params.SetStripeAccount(account)
	invoice, err := g.api.Invoices.FinalizeInvoice(id, params)
	metrics.ObserveRemote("finalize_invoice", start, err)
	return invoice, err
}

func (g *StripeGateway) DeleteInvoice(ctx context.Context, account, id string) error {
	start := time.Now()
	params := &stripe.InvoiceParams{}
	params.Context = ctx
	params.SetStripeAccount(account)
	_, err := g.api.Invoices.Del(id, params)
	metrics.ObserveRemote("delete_invoice", start, err)
	return err
}

func (g *StripeGateway) CreateInvoiceItem(ctx context.Context, params *stripe.InvoiceItemParams) (*stripe.InvoiceItem, error) {
	start := time.Now()
	params.Context = ctx
	item, err := g.api.InvoiceItems.New(params)
	metrics.ObserveRemote("create_invoice_item", start, err)
	return item, err
}

func (g *StripeGateway) ListInvoiceItems(ctx context.Context, params *stripe.InvoiceItemListParams) ([]*stripe.InvoiceItem, error) {
	start := time.Now()
	params.Context = ctx
	var out []*stripe.InvoiceItem
	it := g.api.InvoiceItems.List(params)
	for it.Next() {
		out = append(out, it.InvoiceItem())
	}
	metrics.ObserveRemote("list_invoice_items", start, it.Err())
	return out, it.Err()
}

func (g *StripeGateway) GetBalance(ctx context.Context, account string) (*stripe.Balance, error) {
	start := time.Now()
	params := &stripe.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(account)
	balance, err := g.api.Balance.Get(params)
	metrics.ObserveRemote("get_balance", start, err)
	return balance, err
}

func (g *StripeGateway) ListPaymentIntents(ctx context.Context, params *stripe.PaymentIntentListParams) ([]*stripe.PaymentIntent, error) {
	start := time.Now()
	params.Context = ctx
	var out []*stripe.PaymentIntent
	it := g.api.PaymentIntents.List(params)
	for it.Next() {
		out = append(out, it.PaymentIntent())
	}
	metrics.ObserveRemote("list_payment_intents", start, it.Err())
	return out, it.Err()
}

func (g *StripeGateway) ListIssuingTransactions(ctx context.Context, params *stripe.IssuingTransactionListParams) ([]*stripe.IssuingTransaction, error) {
	start := time.Now()
	params.Context = ctx
	var out []*stripe.IssuingTransaction
	it := g.api.IssuingTransactions.List(params)
	for it.Next() {
		out = append(out, it.IssuingTransaction())
	}
	metrics.ObserveRemote("list_issuing_transactions", start, it.Err())
	return out, it.Err()
}
