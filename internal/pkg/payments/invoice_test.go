package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments/paymentstest"
)

func invoiceRequest(productID, customerID *string) models.InvoiceRequest {
	req := models.InvoiceRequest{
		StripeAccount: "acct_merchant",
		ProductID:     productID,
		CustomerID:    customerID,
		UnitAmount:    1000,
		Currency:      "gbp",
		DueDate:       "2030-01-11",
	}
	if productID == nil {
		req.NewProduct = &models.NewProduct{Name: "Consulting"}
	}
	if customerID == nil {
		req.NewCustomer = &models.NewCustomer{Name: "Acme", Email: "billing@acme.test"}
	}
	return req
}

func newTestInvoiceService(gw Gateway) *InvoiceService {
	s := NewInvoiceService(gw, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestNewInvoicePlanVariants(t *testing.T) {
	tests := []struct {
		name       string
		productID  *string
		customerID *string
		want       Strategy
	}{
		{"both absent", nil, nil, NewProductNewCustomer},
		{"customer only", nil, strPtr("cus_1"), NewProductExistingCustomer},
		{"product only", strPtr("prod_1"), nil, ExistingProductNewCustomer},
		{"both present", strPtr("prod_1"), strPtr("cus_1"), ExistingProductExistingCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewInvoicePlan(invoiceRequest(tt.productID, tt.customerID), fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Strategy())
			assert.Equal(t, "acct_merchant", plan.Terms().Account)
			assert.Equal(t, int64(20), plan.Terms().ApplicationFee())
		})
	}
}

func TestNewInvoicePlanConcreteTypes(t *testing.T) {
	plan, err := NewInvoicePlan(invoiceRequest(strPtr("prod_1"), nil), fixedNow)
	require.NoError(t, err)

	p, ok := plan.(*ExistingProductNewCustomerPlan)
	require.True(t, ok)
	assert.Equal(t, "prod_1", p.ProductID)
	assert.Equal(t, "Acme", p.Customer.Name)
}

func TestNewInvoicePlanRejectsIncompleteRequests(t *testing.T) {
	noProduct := invoiceRequest(nil, nil)
	noProduct.NewProduct = nil
	_, err := NewInvoicePlan(noProduct, fixedNow)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	noCustomer := invoiceRequest(nil, nil)
	noCustomer.NewCustomer = nil
	_, err = NewInvoicePlan(noCustomer, fixedNow)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	low := invoiceRequest(nil, nil)
	low.UnitAmount = 100
	_, err = NewInvoicePlan(low, fixedNow)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	past := invoiceRequest(nil, nil)
	past.DueDate = "2029-12-31"
	_, err = NewInvoicePlan(past, fixedNow)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestApplicationFee(t *testing.T) {
	assert.Equal(t, int64(20), ApplicationFee(1000))
	assert.Equal(t, int64(20), ApplicationFee(1049))
	assert.Equal(t, int64(4), ApplicationFee(200))
	assert.Equal(t, int64(5), ApplicationFee(250))
}

func TestDaysUntilDue(t *testing.T) {
	days, err := DaysUntilDue("2030-01-11", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(9), days)

	days, err = DaysUntilDue("2030-01-02", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), days)

	_, err = DaysUntilDue("2030-01-01", fixedNow)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = DaysUntilDue("01/11/2030", fixedNow)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreateNewProductNewCustomer(t *testing.T) {
	gw := paymentstest.New()
	gw.ItemAmount = 1000
	s := newTestInvoiceService(gw)

	plan, err := s.Plan(invoiceRequest(nil, nil))
	require.NoError(t, err)
	res, err := s.Create(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CreateProduct", "CreatePrice", "CreateCustomer",
		"CreateInvoice", "CreateInvoiceItem", "FinalizeInvoice",
	}, gw.Order)

	assert.Equal(t, "prod_1", *gw.LastPrice.Product)
	assert.Equal(t, "cus_1", *gw.LastInvoice.Customer)
	assert.Equal(t, int64(20), *gw.LastInvoice.ApplicationFeeAmount)
	assert.Equal(t, int64(9), *gw.LastInvoice.DaysUntilDue)
	assert.Equal(t, "send_invoice", *gw.LastInvoice.CollectionMethod)
	assert.True(t, *gw.LastInvoice.AutoAdvance)
	assert.Equal(t, "acct_merchant", *gw.LastInvoice.StripeAccount)
	assert.Equal(t, "price_1", *gw.LastInvoiceItem.Pricing.Price)
	assert.Equal(t, "in_1", *gw.LastInvoiceItem.Invoice)
	assert.Equal(t, "acct_merchant", gw.FinalizedAccount)

	assert.Equal(t, "in_1", res.InvoiceID)
	assert.Equal(t, int64(1000), res.Amount)
	assert.Equal(t, InvoiceStatusOpen, res.Status)
	assert.Equal(t, "new_product_new_customer", res.Strategy)
}

func TestCreateDraftIsNotFinalized(t *testing.T) {
	gw := paymentstest.New()
	s := newTestInvoiceService(gw)

	req := invoiceRequest(nil, strPtr("cus_existing"))
	req.Draft = true
	plan, err := s.Plan(req)
	require.NoError(t, err)

	res, err := s.Create(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, InvoiceStatusDraft, res.Status)
	assert.Equal(t, 0, gw.Count("FinalizeInvoice"))
	assert.Equal(t, 0, gw.Count("CreateCustomer"))
	assert.Equal(t, "cus_existing", *gw.LastInvoice.Customer)
}

func TestCreateExistingProductUsesFirstPrice(t *testing.T) {
	gw := paymentstest.New()
	gw.Prices = []*stripe.Price{{ID: "price_first"}, {ID: "price_second"}}
	s := newTestInvoiceService(gw)

	plan, err := s.Plan(invoiceRequest(strPtr("prod_1"), nil))
	require.NoError(t, err)
	_, err = s.Create(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, "prod_1", *gw.LastPriceList.Product)
	assert.Equal(t, "acct_merchant", *gw.LastPriceList.StripeAccount)
	assert.Equal(t, "price_first", *gw.LastInvoiceItem.Pricing.Price)
	assert.Equal(t, 0, gw.Count("CreateProduct"))
	assert.Equal(t, 1, gw.Count("CreateCustomer"))
}

func TestCreateExistingProductExistingCustomerUsesPremadePair(t *testing.T) {
	gw := paymentstest.New()
	gw.Prices = []*stripe.Price{{ID: "price_premade"}}
	s := newTestInvoiceService(gw)

	plan, err := s.Plan(invoiceRequest(strPtr("prod_1"), strPtr("cus_1")))
	require.NoError(t, err)
	_, err = s.Create(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, "prod_premade", *gw.LastPriceList.Product)
	assert.Equal(t, "acct_premade", *gw.LastPriceList.StripeAccount)
	assert.Equal(t, "acct_merchant", *gw.LastInvoice.StripeAccount)
	assert.Equal(t, []string{"ListPrices", "CreateInvoice", "CreateInvoiceItem", "FinalizeInvoice"}, gw.Order)
}

func TestCreateExistingProductWithoutPrice(t *testing.T) {
	gw := paymentstest.New()
	s := newTestInvoiceService(gw)

	plan, err := s.Plan(invoiceRequest(strPtr("prod_1"), nil))
	require.NoError(t, err)
	_, err = s.Create(context.Background(), plan)

	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, 0, gw.Count("CreateInvoice"))
}

func TestCreateStopsAtFailedStep(t *testing.T) {
	gw := paymentstest.New()
	gw.Errors["CreateCustomer"] = errors.New("connection reset")
	s := newTestInvoiceService(gw)

	plan, err := s.Plan(invoiceRequest(nil, nil))
	require.NoError(t, err)
	_, err = s.Create(context.Background(), plan)

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindRemote))
	assert.Contains(t, err.Error(), "new_product_new_customer/create_customer")
	assert.Equal(t, 1, gw.Count("CreateProduct"))
	assert.Equal(t, 0, gw.Count("CreateInvoice"))
	assert.Equal(t, 0, gw.Count("CreateInvoiceItem"))
}

func TestUpdateInvoice(t *testing.T) {
	gw := paymentstest.New()
	s := newTestInvoiceService(gw)
	req := models.UpdateInvoiceRequest{
		ID:            "in_1",
		StripeAccount: "acct_merchant",
		Description:   strPtr("March retainer"),
		DueDate:       strPtr("2030-02-01"),
	}

	_, err := s.Update(context.Background(), req)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, 0, gw.Count("UpdateInvoice"))

	gw.Items = []*stripe.InvoiceItem{{ID: "ii_1"}}
	inv, err := s.Update(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "March retainer", inv.Description)
	want := time.Date(2030, 2, 1, 0, 0, 0, 0, time.Local).Unix()
	assert.Equal(t, want, *gw.LastInvoiceUpdate.DueDate)
	assert.Equal(t, "acct_merchant", *gw.LastInvoiceUpdate.StripeAccount)
}

func TestDeleteInvoice(t *testing.T) {
	gw := paymentstest.New()
	s := newTestInvoiceService(gw)

	err := s.Delete(context.Background(), models.DeleteInvoiceRequest{InvoiceID: "in_1", ConnectedAccountID: "acct_merchant"})
	require.NoError(t, err)
	assert.Equal(t, "in_1", gw.DeletedInvoice)

	gw.Errors["DeleteInvoice"] = &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Msg: "You can only delete draft invoices."}
	err = s.Delete(context.Background(), models.DeleteInvoiceRequest{InvoiceID: "in_2", ConnectedAccountID: "acct_merchant"})
	assert.True(t, apperror.Is(err, apperror.KindRemote))
	assert.Contains(t, err.Error(), "draft")
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "existing_product_existing_customer", ExistingProductExistingCustomer.String())
	assert.Equal(t, "strategy(9)", Strategy(9).String())
}
