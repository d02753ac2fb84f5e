package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
)

const UserIDKey = "user_id"

var sessionStore *session.Store

// NewSessionStore creates the session store on redis database 1; the job
// queue uses database 0.
func NewSessionStore(cfg *config.Config) *session.Store {
	port, err := strconv.Atoi(cfg.CachePort)
	if err != nil {
		port = 6379
	}

	storage := redis.New(redis.Config{
		Host:     cfg.CacheHost,
		Port:     port,
		Password: cfg.CachePassword,
		Database: 1,
		Reset:    false,
	})

	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   !cfg.IsDev(),
		Expiration:     time.Hour * 1,
		KeyLookup:      "cookie:session_id",
	})

	return sessionStore
}

// SetStore replaces the package store, used by tests with in-memory storage.
func SetStore(store *session.Store) {
	sessionStore = store
}

// Login stores the user id in a fresh session.
func Login(c *fiber.Ctx, userID uint) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %v", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %v", err)
	}

	sess.Set(UserIDKey, userID)
	return sess.Save()
}

// Logout destroys the current session.
func Logout(c *fiber.Ctx) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %v", err)
	}
	return sess.Destroy()
}

// UserID returns the logged in user's id, or 0 when there is none.
func UserID(c *fiber.Ctx) uint {
	if sessionStore == nil {
		return 0
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return 0
	}

	switch v := sess.Get(UserIDKey).(type) {
	case uint:
		return v
	case int:
		return uint(v)
	case uint64:
		return uint(v)
	}
	return 0
}
