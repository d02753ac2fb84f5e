// Package payments builds and sequences the calls made to the payments
// platform for onboarding, invoicing, catalog management and stats.
package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
)

// Gateway is the subset of the payments platform API used by this service.
// Every call that targets a connected account carries it in the params
// (SetStripeAccount) or in the account argument.
type Gateway interface {
	CreateToken(ctx context.Context, params *stripe.TokenParams) (*stripe.Token, error)
	CreateAccount(ctx context.Context, params *stripe.AccountParams) (*stripe.Account, error)

	CreateProduct(ctx context.Context, params *stripe.ProductParams) (*stripe.Product, error)
	CreatePrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error)
	ListPrices(ctx context.Context, params *stripe.PriceListParams) ([]*stripe.Price, error)

	CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error)
	ListCustomers(ctx context.Context, params *stripe.CustomerListParams) ([]*stripe.Customer, error)

	CreateInvoice(ctx context.Context, params *stripe.InvoiceParams) (*stripe.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, params *stripe.InvoiceParams) (*stripe.Invoice, error)
	FinalizeInvoice(ctx context.Context, account, id string) (*stripe.Invoice, error)
	DeleteInvoice(ctx context.Context, account, id string) error
	CreateInvoiceItem(ctx context.Context, params *stripe.InvoiceItemParams) (*stripe.InvoiceItem, error)
	ListInvoiceItems(ctx context.Context, params *stripe.InvoiceItemListParams) ([]*stripe.InvoiceItem, error)

	GetBalance(ctx context.Context, account string) (*stripe.Balance, error)
	ListPaymentIntents(ctx context.Context, params *stripe.PaymentIntentListParams) ([]*stripe.PaymentIntent, error)
	ListIssuingTransactions(ctx context.Context, params *stripe.IssuingTransactionListParams) ([]*stripe.IssuingTransaction, error)
}

// remoteError wraps a gateway failure with the step that produced it and
// the error type reported by the platform.
func remoteError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		remote := apperror.Remote(op, string(se.Type), err)
		if se.Msg != "" {
			remote.Message = se.Msg
		}
		return remote
	}
	return apperror.Remote(op, "", err)
}
