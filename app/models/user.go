package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	BUSINESS_TYPE_INDIVIDUAL = "individual"
	BUSINESS_TYPE_COMPANY    = "company"
	BUSINESS_TYPE_NON_PROFIT = "non_profit"
	BUSINESS_TYPE_GOVERNMENT = "government_entity"
)

// BusinessTypes lists the values accepted for SignupRequest.BusinessType.
var BusinessTypes = []string{
	BUSINESS_TYPE_INDIVIDUAL,
	BUSINESS_TYPE_COMPANY,
	BUSINESS_TYPE_NON_PROFIT,
	BUSINESS_TYPE_GOVERNMENT,
}

type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Email           string    `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	Password        string    `gorm:"type:text;not null" json:"-" validate:"required"`
	FirstName       string    `gorm:"type:varchar(150);not null" json:"first_name" validate:"required,max=150"`
	LastName        string    `gorm:"type:varchar(150);not null" json:"last_name" validate:"required,max=150"`
	Phone           string    `gorm:"type:varchar(20);default:null" json:"phone,omitempty" validate:"max=20"`
	BusinessType    string    `gorm:"type:varchar(50);not null" json:"business_type" validate:"oneof=individual company non_profit government_entity"`
	StripeAccountID string    `gorm:"type:varchar(100);index;default:null" json:"stripe_account_id,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds a validated user with a hashed password. The connected
// account id is set once the account exists.
func CreateUser(req SignupRequest) (*User, error) {
	pw, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:           NormalizeEmail(req.Email),
		Password:        pw,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Phone:           strings.TrimSpace(req.Phone),
		BusinessType:    req.BusinessType,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// NormalizeEmail lowercases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// ApplyUpdate copies the non-empty profile fields of req onto u.
func (u *User) ApplyUpdate(req UpdateUserRequest) {
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
}
