package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
	"github.com/ManuelReschke/PayFox/internal/pkg/session"
	"github.com/ManuelReschke/PayFox/internal/pkg/usercontext"
)

const msgInvalidCredentials = "Invalid credentials"

// AuthController handles signup, login and profile updates
type AuthController struct {
	onboarder *payments.Onboarder
	users     repository.UserRepository
}

// NewAuthController creates a new auth controller
func NewAuthController(onboarder *payments.Onboarder, users repository.UserRepository) *AuthController {
	return &AuthController{onboarder: onboarder, users: users}
}

// HandleSignup creates the connected account and the local user.
func (ac *AuthController) HandleSignup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := parseBody(c, "signup", &req); err != nil {
		return sendError(c, err)
	}

	result, err := ac.onboarder.Signup(c.UserContext(), req)
	if err != nil {
		return sendError(c, err)
	}

	return sendSuccess(c, fiber.StatusOK, "Signed up successfully", result)
}

// HandleLogin checks the credentials and starts a session.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, "login", &req); err != nil {
		return sendError(c, err)
	}
	if err := req.Validate(); err != nil {
		return sendError(c, apperror.Validation("login", err.Error()))
	}

	user, err := ac.users.GetByEmail(models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sendError(c, apperror.Conflict("login", msgInvalidCredentials))
		}
		return sendError(c, apperror.Internal("login", err))
	}
	if !user.CheckPassword(req.Password) {
		return sendError(c, apperror.Conflict("login", msgInvalidCredentials))
	}

	if err := session.Login(c, user.ID); err != nil {
		return sendError(c, apperror.Internal("login", err))
	}

	fiberlog.Infof("[Auth] User %d logged in", user.ID)
	return sendSuccess(c, fiber.StatusOK, "Logged in successfully", fiber.Map{
		"id":                user.ID,
		"email":             user.Email,
		"stripe_account_id": user.StripeAccountID,
	})
}

// HandleLogout destroys the current session.
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		return sendError(c, apperror.Internal("logout", err))
	}
	return sendSuccess(c, fiber.StatusOK, "Logged out successfully", nil)
}

// HandleUpdateUser changes profile fields and, when given, the password of
// the logged in user.
func (ac *AuthController) HandleUpdateUser(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := parseBody(c, "update_user", &req); err != nil {
		return sendError(c, err)
	}
	if err := req.Validate(); err != nil {
		return sendError(c, apperror.Validation("update_user", err.Error()))
	}

	user, err := ac.users.GetByID(usercontext.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sendError(c, apperror.NotFound("update_user", "User not found"))
		}
		return sendError(c, apperror.Internal("update_user", err))
	}

	if req.Password != nil {
		if err := ac.onboarder.CheckPassword("update_user", *req.Password); err != nil {
			return sendError(c, err)
		}
		if err := user.SetPassword(*req.Password); err != nil {
			return sendError(c, apperror.Internal("update_user", err))
		}
	}
	user.ApplyUpdate(req)

	if err := user.Validate(); err != nil {
		return sendError(c, apperror.Validation("update_user", err.Error()))
	}
	if err := ac.users.Update(user); err != nil {
		return sendError(c, apperror.Internal("update_user", err))
	}

	return sendSuccess(c, fiber.StatusOK, "User updated successfully", user)
}
