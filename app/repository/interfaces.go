package repository

import (
	"github.com/ManuelReschke/PayFox/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// WebhookEventRepository defines the interface for webhook delivery bookkeeping
type WebhookEventRepository interface {
	// CreateIfNotExists stores the event unless one with the same stream and
	// provider id exists. It reports whether a row was created and returns the
	// stored row either way.
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkForwarded(id uint) error
	MarkFailed(id uint, processingError string) error
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	WebhookEvent WebhookEventRepository
}
