package domain

import "strings"

// NewSessionProjection builds the session view of a user record.
// Passing a nil user is a programming error.
func NewSessionProjection(user *User) SessionProjection {
	if user == nil {
		panic("domain: NewSessionProjection called with nil user")
	}
	return SessionProjection{
		ID:            user.ID,
		Email:         user.Email,
		Role:          Role(strings.ToLower(string(user.Role))),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Phone:         user.Phone,
		AvatarURL:     user.AvatarURL,
		EmailVerified: user.EmailVerified,
	}
}

// FullName joins first and last name
func (p SessionProjection) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
