// Package paymentstest provides an in-memory payments.Gateway for tests.
package paymentstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/stripe/stripe-go/v82"
)

// Gateway records every call and answers from its fields. Errors keyed by
// method name are returned instead of a result.
type Gateway struct {
	mu sync.Mutex

	Errors map[string]error
	Order  []string
	calls  map[string]int

	Prices     []*stripe.Price
	Balance    *stripe.Balance
	Items      []*stripe.InvoiceItem
	Issuing    []*stripe.IssuingTransaction
	ItemAmount int64

	// PaymentIntents and Customers are keyed by the lower bound of the
	// created range of the list call.
	PaymentIntents map[int64][]*stripe.PaymentIntent
	Customers      map[int64][]*stripe.Customer

	LastToken         *stripe.TokenParams
	LastAccount       *stripe.AccountParams
	LastProduct       *stripe.ProductParams
	LastPrice         *stripe.PriceParams
	LastPriceList     *stripe.PriceListParams
	LastCustomer      *stripe.CustomerParams
	LastInvoice       *stripe.InvoiceParams
	LastInvoiceUpdate *stripe.InvoiceParams
	LastInvoiceItem   *stripe.InvoiceItemParams
	FinalizedAccount  string
	DeletedInvoice    string
}

func New() *Gateway {
	return &Gateway{
		Errors:         map[string]error{},
		calls:          map[string]int{},
		PaymentIntents: map[int64][]*stripe.PaymentIntent{},
		Customers:      map[int64][]*stripe.Customer{},
	}
}

// Count returns how often method was called.
func (g *Gateway) Count(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[method]
}

// Total returns the number of calls across all methods.
func (g *Gateway) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := 0
	for _, n := range g.calls {
		total += n
	}
	return total
}

func (g *Gateway) record(method string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = map[string]int{}
	}
	g.calls[method]++
	g.Order = append(g.Order, method)
	return g.calls[method], g.Errors[method]
}

func rangeStart(r *stripe.RangeQueryParams) int64 {
	if r == nil {
		return 0
	}
	return r.GreaterThanOrEqual
}

func (g *Gateway) CreateToken(_ context.Context, params *stripe.TokenParams) (*stripe.Token, error) {
	n, err := g.record("CreateToken")
	if err != nil {
		return nil, err
	}
	g.LastToken = params
	return &stripe.Token{ID: fmt.Sprintf("ct_%d", n)}, nil
}

func (g *Gateway) CreateAccount(_ context.Context, params *stripe.AccountParams) (*stripe.Account, error) {
	n, err := g.record("CreateAccount")
	if err != nil {
		return nil, err
	}
	g.LastAccount = params
	return &stripe.Account{ID: fmt.Sprintf("acct_%d", n)}, nil
}

func (g *Gateway) CreateProduct(_ context.Context, params *stripe.ProductParams) (*stripe.Product, error) {
	n, err := g.record("CreateProduct")
	if err != nil {
		return nil, err
	}
	g.LastProduct = params
	p := &stripe.Product{ID: fmt.Sprintf("prod_%d", n)}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	return p, nil
}

func (g *Gateway) CreatePrice(_ context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	n, err := g.record("CreatePrice")
	if err != nil {
		return nil, err
	}
	g.LastPrice = params
	p := &stripe.Price{ID: fmt.Sprintf("price_%d", n)}
	if params.UnitAmount != nil {
		p.UnitAmount = *params.UnitAmount
	}
	return p, nil
}

func (g *Gateway) ListPrices(_ context.Context, params *stripe.PriceListParams) ([]*stripe.Price, error) {
	if _, err := g.record("ListPrices"); err != nil {
		return nil, err
	}
	g.LastPriceList = params
	return g.Prices, nil
}

func (g *Gateway) CreateCustomer(_ context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	n, err := g.record("CreateCustomer")
	if err != nil {
		return nil, err
	}
	g.LastCustomer = params
	c := &stripe.Customer{ID: fmt.Sprintf("cus_%d", n)}
	if params.Name != nil {
		c.Name = *params.Name
	}
	if params.Email != nil {
		c.Email = *params.Email
	}
	return c, nil
}

func (g *Gateway) ListCustomers(_ context.Context, params *stripe.CustomerListParams) ([]*stripe.Customer, error) {
	if _, err := g.record("ListCustomers"); err != nil {
		return nil, err
	}
	return g.Customers[rangeStart(params.CreatedRange)], nil
}

func (g *Gateway) CreateInvoice(_ context.Context, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	n, err := g.record("CreateInvoice")
	if err != nil {
		return nil, err
	}
	g.LastInvoice = params
	return &stripe.Invoice{ID: fmt.Sprintf("in_%d", n), Status: stripe.InvoiceStatusDraft}, nil
}

func (g *Gateway) UpdateInvoice(_ context.Context, id string, params *stripe.InvoiceParams) (*stripe.Invoice, error) {
	if _, err := g.record("UpdateInvoice"); err != nil {
		return nil, err
	}
	g.LastInvoiceUpdate = params
	inv := &stripe.Invoice{ID: id}
	if params.Description != nil {
		inv.Description = *params.Description
	}
	return inv, nil
}

func (g *Gateway) FinalizeInvoice(_ context.Context, account, id string) (*stripe.Invoice, error) {
	if _, err := g.record("FinalizeInvoice"); err != nil {
		return nil, err
	}
	g.FinalizedAccount = account
	return &stripe.Invoice{ID: id, Status: stripe.InvoiceStatusOpen}, nil
}

func (g *Gateway) DeleteInvoice(_ context.Context, _, id string) error {
	if _, err := g.record("DeleteInvoice"); err != nil {
		return err
	}
	g.DeletedInvoice = id
	return nil
}

func (g *Gateway) CreateInvoiceItem(_ context.Context, params *stripe.InvoiceItemParams) (*stripe.InvoiceItem, error) {
	n, err := g.record("CreateInvoiceItem")
	if err != nil {
		return nil, err
	}
	g.LastInvoiceItem = params
	item := &stripe.InvoiceItem{ID: fmt.Sprintf("ii_%d", n), Amount: g.ItemAmount}
	if params.Invoice != nil {
		item.Invoice = &stripe.Invoice{ID: *params.Invoice}
	}
	return item, nil
}

func (g *Gateway) ListInvoiceItems(_ context.Context, _ *stripe.InvoiceItemListParams) ([]*stripe.InvoiceItem, error) {
	if _, err := g.record("ListInvoiceItems"); err != nil {
		return nil, err
	}
	return g.Items, nil
}

func (g *Gateway) GetBalance(_ context.Context, _ string) (*stripe.Balance, error) {
	if _, err := g.record("GetBalance"); err != nil {
		return nil, err
	}
	if g.Balance == nil {
		return &stripe.Balance{}, nil
	}
	return g.Balance, nil
}

func (g *Gateway) ListPaymentIntents(_ context.Context, params *stripe.PaymentIntentListParams) ([]*stripe.PaymentIntent, error) {
	if _, err := g.record("ListPaymentIntents"); err != nil {
		return nil, err
	}
	return g.PaymentIntents[rangeStart(params.CreatedRange)], nil
}

func (g *Gateway) ListIssuingTransactions(_ context.Context, _ *stripe.IssuingTransactionListParams) ([]*stripe.IssuingTransaction, error) {
	if _, err := g.record("ListIssuingTransactions"); err != nil {
		return nil, err
	}
	return g.Issuing, nil
}
