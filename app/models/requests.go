package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New()

// ErrBothProductFields is returned when a request names an existing product
// and also describes a new one.
var ErrBothProductFields = errors.New("only one of product_id and new_product may be set")

// ErrBothCustomerFields is the customer counterpart of ErrBothProductFields.
var ErrBothCustomerFields = errors.New("only one of customer_id and new_customer may be set")

type SignupRequest struct {
	Email               string `json:"email" validate:"required,email,max=200"`
	Password            string `json:"password" validate:"required"`
	FirstName           string `json:"first_name" validate:"required,max=150"`
	LastName            string `json:"last_name" validate:"required,max=150"`
	BusinessType        string `json:"business_type" validate:"required,oneof=individual company non_profit government_entity"`
	TOSShownAndAccepted bool   `json:"tos_shown_and_accepted"`
	Phone               string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

func (r *SignupRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Trim strips surrounding blanks from the free-text fields, so blank names
// fail the required checks.
func (r *SignupRequest) Trim() {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return requestValidator.Struct(r)
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=150"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password  *string `json:"password,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	return requestValidator.Struct(r)
}

type NewProduct struct {
	Name        string  `json:"name" validate:"required,max=250"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type NewCustomer struct {
	Name        string  `json:"name" validate:"required,max=250"`
	Email       string  `json:"email" validate:"required,email"`
	Description *string `json:"description,omitempty"`
}

// Issuer names the connected account an invoice is issued from.
type Issuer struct {
	Type    string `json:"type"`
	Account string `json:"account"`
}

type InvoiceRequest struct {
	StripeAccount      string       `json:"stripe_account" validate:"required"`
	ProductID          *string      `json:"product_id,omitempty" validate:"omitempty,min=1"`
	NewProduct         *NewProduct  `json:"new_product,omitempty"`
	CustomerID         *string      `json:"customer_id,omitempty" validate:"omitempty,min=1"`
	NewCustomer        *NewCustomer `json:"new_customer,omitempty"`
	UnitAmount         int64        `json:"unit_amount" validate:"required,min=200"`
	Currency           string       `json:"currency" validate:"required,len=3"`
	DueDate            string       `json:"due_date" validate:"required,datetime=2006-01-02"`
	ApplicantFeeAmount *int64       `json:"applicant_fee_amount,omitempty"`
	Draft              bool         `json:"draft"`
	AutoAdvance        *bool        `json:"auto_advance,omitempty"`
	Issuer             *Issuer      `json:"issuer,omitempty"`
}

// Validate checks field constraints and that product and customer are each
// described at most once. The required side is enforced when the request is
// resolved into an invoice plan.
func (r *InvoiceRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return err
	}
	if r.ProductID != nil && r.NewProduct != nil {
		return ErrBothProductFields
	}
	if r.CustomerID != nil && r.NewCustomer != nil {
		return ErrBothCustomerFields
	}
	return nil
}

// WithIssuer sets the issuer block from the stripe_account field.
func (r *InvoiceRequest) WithIssuer() {
	r.Issuer = &Issuer{Type: "account", Account: r.StripeAccount}
}

type UpdateInvoiceRequest struct {
	ID            string  `json:"id" validate:"required"`
	StripeAccount string  `json:"stripe_account" validate:"required"`
	Description   *string `json:"description,omitempty"`
	DueDate       *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Footer        *string `json:"footer,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	return requestValidator.Struct(r)
}

type DeleteInvoiceRequest struct {
	InvoiceID          string `json:"invoice_id" validate:"required"`
	ConnectedAccountID string `json:"connected_account_id" validate:"required"`
}

func (r *DeleteInvoiceRequest) Validate() error {
	return requestValidator.Struct(r)
}

type StatsRequest struct {
	StripeAccount string `json:"stripe_account" validate:"required"`
	Limit         *int64 `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

func (r *StatsRequest) Validate() error {
	return requestValidator.Struct(r)
}

type CustomerRequest struct {
	StripeAccount string  `json:"stripe_account" validate:"required"`
	Name          string  `json:"name" validate:"required,max=250"`
	Email         string  `json:"email" validate:"required,email"`
	Description   *string `json:"description,omitempty"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

func (r *CustomerRequest) Validate() error {
	return requestValidator.Struct(r)
}

type ProductRequest struct {
	StripeAccount string  `json:"stripe_account" validate:"required"`
	Name          string  `json:"name" validate:"required,max=250"`
	Description   *string `json:"description,omitempty"`
	Active        *bool   `json:"active,omitempty"`
	UnitAmount    int64   `json:"unit_amount" validate:"required,min=200"`
	Currency      string  `json:"currency" validate:"required,len=3"`
}

func (r *ProductRequest) Validate() error {
	return requestValidator.Struct(r)
}
