package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoiceRequest() InvoiceRequest {
	return InvoiceRequest{
		StripeAccount: "acct_1",
		NewProduct:    &NewProduct{Name: "Consulting"},
		NewCustomer:   &NewCustomer{Name: "Jane", Email: "jane@example.com"},
		UnitAmount:    1000,
		Currency:      "gbp",
		DueDate:       "2030-01-31",
	}
}

func TestSignupRequestValidate(t *testing.T) {
	req := SignupRequest{
		Email:        "jane@example.com",
		Password:     "secret12",
		FirstName:    "Jane",
		LastName:     "Doe",
		BusinessType: BUSINESS_TYPE_INDIVIDUAL,
	}
	require.NoError(t, req.Validate())

	req.BusinessType = "sole_trader"
	assert.Error(t, req.Validate())

	req.BusinessType = BUSINESS_TYPE_COMPANY
	req.Email = "not-an-email"
	assert.Error(t, req.Validate())
}

func TestInvoiceRequestValidate(t *testing.T) {
	req := validInvoiceRequest()
	require.NoError(t, req.Validate())

	low := validInvoiceRequest()
	low.UnitAmount = 199
	assert.Error(t, low.Validate())

	currency := validInvoiceRequest()
	currency.Currency = "gbpx"
	assert.Error(t, currency.Validate())

	date := validInvoiceRequest()
	date.DueDate = "31/01/2030"
	assert.Error(t, date.Validate())

	productID := "prod_1"
	both := validInvoiceRequest()
	both.ProductID = &productID
	assert.ErrorIs(t, both.Validate(), ErrBothProductFields)

	customerID := "cus_1"
	bothCustomer := validInvoiceRequest()
	bothCustomer.CustomerID = &customerID
	assert.ErrorIs(t, bothCustomer.Validate(), ErrBothCustomerFields)
}

func TestInvoiceRequestWithIssuer(t *testing.T) {
	req := validInvoiceRequest()
	req.WithIssuer()
	require.NotNil(t, req.Issuer)
	assert.Equal(t, "account", req.Issuer.Type)
	assert.Equal(t, "acct_1", req.Issuer.Account)
}

func TestCreateUser(t *testing.T) {
	u, err := CreateUser(SignupRequest{
		Email:        "  Jane@Example.com ",
		Password:     "secret12",
		FirstName:    "Jane",
		LastName:     "Doe",
		BusinessType: BUSINESS_TYPE_INDIVIDUAL,
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Empty(t, u.StripeAccountID)
	assert.True(t, u.CheckPassword("secret12"))
}

func TestCreateUserRejectsBlankName(t *testing.T) {
	_, err := CreateUser(SignupRequest{
		Email:        "jane@example.com",
		Password:     "secret12",
		FirstName:    "   ",
		LastName:     "Doe",
		BusinessType: BUSINESS_TYPE_INDIVIDUAL,
	})
	assert.Error(t, err)
}

func TestSignupRequestTrim(t *testing.T) {
	req := SignupRequest{
		Email:        " jane@example.com ",
		Password:     "secret12",
		FirstName:    "   ",
		LastName:     " Doe ",
		BusinessType: BUSINESS_TYPE_INDIVIDUAL,
	}
	req.Trim()

	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, "Doe", req.LastName)
	assert.Error(t, req.Validate())
}

func TestUserApplyUpdate(t *testing.T) {
	u := &User{FirstName: "Jane", LastName: "Doe"}
	name := " Janet "
	u.ApplyUpdate(UpdateUserRequest{FirstName: &name})

	assert.Equal(t, "Janet", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
}
