package domain

import (
	"fmt"
	"strings"
	"time"
)

// MagicLinkTTL is the lifetime of a passwordless login token
const MagicLinkTTL = time.Hour

// Role is the closed set of account roles
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleWatchman Role = "watchman"
	RoleAdmin    Role = "admin"
)

// Roles lists every known role
var Roles = []Role{RoleCustomer, RoleOwner, RoleWatchman, RoleAdmin}

// ParseRole accepts a role in any letter case
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// SelfAssignable reports whether a user may pick this role at registration
func (r Role) SelfAssignable() bool {
	return r == RoleCustomer || r == RoleOwner
}

// User represents an account in the system
type User struct {
	ID                 uint
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Phone              string
	AvatarURL          string
	Role               Role
	EmailVerified      bool
	MagicLinkTokenHash string
	MagicLinkExpiresAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SessionProjection is the identity view handed to route handlers.
// It never carries the password hash or magic-link material.
type SessionProjection struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	AvatarURL     string `json:"avatar_url"`
	EmailVerified bool   `json:"email_verified"`
}

// MagicLinkToken is the result of issuing a passwordless login token.
// RawToken is shown to the user once; only HashedToken is persisted.
type MagicLinkToken struct {
	RawToken    string
	HashedToken string
	ExpiresAt   time.Time
}

// DeliveryChannel selects how a magic link reaches the user
type DeliveryChannel string

const (
	ChannelEmail DeliveryChannel = "email"
	ChannelSMS   DeliveryChannel = "sms"
)

// RegisterInput represents sign-up data
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      Role
}

// ProfileUpdate holds the profile fields a user may change; nil fields are left untouched
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	AvatarURL *string
}

// Empty reports whether the update changes nothing
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.AvatarURL == nil
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         SessionProjection
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a user session
type Session struct {
	ID         string            `json:"id"`
	UserID     uint              `json:"user_id"`
	Projection SessionProjection `json:"projection"`
	ExpiresAt  time.Time         `json:"expires_at"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Vehicle is a car registered by a customer
type Vehicle struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	PlateNumber string    `json:"plate_number"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location is a parking facility listed by an owner
type Location struct {
	ID              uint      `json:"id"`
	OwnerID         uint      `json:"owner_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	TotalSpots      int       `json:"total_spots"`
	CreatedAt       time.Time `json:"created_at"`
}

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a reservation of a spot at a location
type Booking struct {
	ID         uint          `json:"id"`
	UserID     uint          `json:"user_id"`
	LocationID uint          `json:"location_id"`
	VehicleID  uint          `json:"vehicle_id"`
	StartsAt   time.Time     `json:"starts_at"`
	EndsAt     time.Time     `json:"ends_at"`
	Status     BookingStatus `json:"status"`
	TotalCents int64         `json:"total_cents"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NearbyLocation pairs a location with its distance from a search point
type NearbyLocation struct {
	Location
	DistanceKm float64 `json:"distance_km"`
}
