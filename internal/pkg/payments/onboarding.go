package payments

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/config"
)

// Controller policy applied to every connected account. The platform pays
// the fees, carries the losses and collects requirements; the merchant gets
// no hosted dashboard.
const (
	controllerFeesPayer             = "application"
	controllerLossesPayments        = "application"
	controllerDashboardType         = "none"
	controllerRequirementCollection = "application"
)

// BuildIdentityToken returns the account token request for a signup.
func BuildIdentityToken(req models.SignupRequest) *stripe.TokenParams {
	return &stripe.TokenParams{
		Account: &stripe.TokenAccountParams{
			BusinessType: stripe.String(req.BusinessType),
			Individual: &stripe.PersonParams{
				FirstName: stripe.String(req.FirstName),
				LastName:  stripe.String(req.LastName),
			},
			TOSShownAndAccepted: stripe.Bool(req.TOSShownAndAccepted),
		},
	}
}

// BuildAccount returns the connected account request for the given email
// and account token.
func BuildAccount(email, tokenID, country string) *stripe.AccountParams {
	return &stripe.AccountParams{
		Country:      stripe.String(country),
		Email:        stripe.String(email),
		AccountToken: stripe.String(tokenID),
		Controller: &stripe.AccountControllerParams{
			Fees: &stripe.AccountControllerFeesParams{
				Payer: stripe.String(controllerFeesPayer),
			},
			Losses: &stripe.AccountControllerLossesParams{
				Payments: stripe.String(controllerLossesPayments),
			},
			StripeDashboard: &stripe.AccountControllerStripeDashboardParams{
				Type: stripe.String(controllerDashboardType),
			},
			RequirementCollection: stripe.String(controllerRequirementCollection),
		},
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
}

// SignupResult is returned by Onboarder.Signup.
type SignupResult struct {
	User      *models.User `json:"user"`
	AccountID string       `json:"account_id"`
	TokenID   string       `json:"user_token"`
}

// Onboarder creates the connected account for a new user and stores the
// local credentials.
type Onboarder struct {
	gateway Gateway
	users   repository.UserRepository
	cfg     *config.Config
}

func NewOnboarder(gateway Gateway, users repository.UserRepository, cfg *config.Config) *Onboarder {
	return &Onboarder{gateway: gateway, users: users, cfg: cfg}
}

// CheckPassword applies the configured password policy. Violations are
// reported with status 409.
func (o *Onboarder) CheckPassword(op, password string) error {
	if err := models.ValidatePassword(password, o.cfg.PasswordRequireSpecial); err != nil {
		return apperror.Validation(op, err.Error()).WithStatus(fiber.StatusConflict)
	}
	return nil
}

// Signup validates req, creates the account token and the connected account
// and persists the user. The user record is built and validated first, so
// only the final insert can fail once the platform has been called.
func (o *Onboarder) Signup(ctx context.Context, req models.SignupRequest) (*SignupResult, error) {
	req.Trim()
	if err := o.CheckPassword("signup", req.Password); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation("signup", err.Error())
	}

	user, err := models.CreateUser(req)
	if err != nil {
		return nil, apperror.Validation("signup", err.Error())
	}

	email := models.NormalizeEmail(req.Email)
	exists, err := o.users.ExistsByEmail(email)
	if err != nil {
		return nil, apperror.Internal("signup", err)
	}
	if exists {
		return nil, apperror.Conflict("signup", "User already exists")
	}

	token, err := o.gateway.CreateToken(ctx, BuildIdentityToken(req))
	if err != nil {
		return nil, remoteError("signup/create_token", err)
	}

	account, err := o.gateway.CreateAccount(ctx, BuildAccount(email, token.ID, o.cfg.StripeAccountCountry))
	if err != nil {
		return nil, remoteError("signup/create_account", err)
	}

	user.StripeAccountID = account.ID
	if err := o.users.Create(user); err != nil {
		log.Errorf("[Signup] Connected account %s created but user %s could not be stored: %v", account.ID, email, err)
		return nil, apperror.Internal("signup", fmt.Errorf("store user: %w", err))
	}

	log.Infof("[Signup] Created user %d with connected account %s", user.ID, account.ID)
	return &SignupResult{User: user, AccountID: account.ID, TokenID: token.ID}, nil
}
