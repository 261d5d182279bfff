package domain

import (
	"errors"
	"time"
)

// UserRole controls what a user may do once authenticated.
type UserRole string

const (
	RoleClient  UserRole = "client"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUnauthorized = errors.New("unauthorized")

// User models a Telegram account known to the shop. TelegramID is the
// immutable platform key; Username, FirstName and LastName track the
// profile Telegram last reported. Role is never changed by the auth flow.
type User struct {
	ID              string    `json:"id"`
	TelegramID      int64     `json:"telegram_id"`
	Username        string    `json:"username,omitempty"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	Role            UserRole  `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	DeliveryAddress string    `json:"delivery_address,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
