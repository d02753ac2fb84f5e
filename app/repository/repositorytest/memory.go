// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/PayFox/app/models"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
	// CreateErr is returned by Create when set.
	CreateErr error
}

func NewUsers() *Users {
	return &Users{byID: map[uint]*models.User{}}
}

func (r *Users) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *Users) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *u
	return &out, nil
}

func (r *Users) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Users) ExistsByEmail(email string) (bool, error) {
	_, err := r.GetByEmail(email)
	return err == nil, nil
}

func (r *Users) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *Users) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *Users) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

// WebhookEvents is an in-memory repository.WebhookEventRepository.
type WebhookEvents struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*models.WebhookEvent
}

func NewWebhookEvents() *WebhookEvents {
	return &WebhookEvents{rows: map[string]*models.WebhookEvent{}}
}

func (r *WebhookEvents) CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := event.Stream + "/" + event.ProviderEventID
	if stored, ok := r.rows[key]; ok {
		out := *stored
		return false, &out, nil
	}
	r.nextID++
	event.ID = r.nextID
	stored := *event
	r.rows[key] = &stored
	out := stored
	return true, &out, nil
}

func (r *WebhookEvents) MarkForwarded(id uint) error {
	return r.update(id, func(e *models.WebhookEvent) {
		now := time.Now()
		e.ForwardedAt = &now
		e.ProcessingError = ""
	})
}

func (r *WebhookEvents) MarkFailed(id uint, processingError string) error {
	return r.update(id, func(e *models.WebhookEvent) {
		e.ProcessingError = processingError
	})
}

// Get returns the stored event for stream and provider id.
func (r *WebhookEvents) Get(stream, providerEventID string) *models.WebhookEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.rows[stream+"/"+providerEventID]; ok {
		out := *e
		return &out
	}
	return nil
}

func (r *WebhookEvents) update(id uint, fn func(*models.WebhookEvent)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.ID == id {
			fn(e)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
