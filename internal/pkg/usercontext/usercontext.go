package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the session user of a request
type UserContext struct {
	UserID     uint `json:"user_id"`
	IsLoggedIn bool `json:"is_logged_in"`
}

// Set stores the user context on the request.
func Set(c *fiber.Ctx, userID uint) {
	c.Locals(KeyUserContext, UserContext{UserID: userID, IsLoggedIn: userID > 0})
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
