// Package user defines the user domain entity
package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
)

// Profile holds the descriptive fields supplied at registration.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Country   string
	Email     string
}

// User represents a registered account. Users are immutable once created.
type User struct {
	id           int64
	profile      Profile
	passwordHash string
	createdAt    time.Time
}

// NewUser hashes password with the given bcrypt cost and returns an unsaved user.
func NewUser(profile Profile, password string, cost int) (*User, error) {
	profile.Username = strings.TrimSpace(profile.Username)
	if profile.Username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	return &User{
		profile:      profile,
		passwordHash: string(hash),
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a user loaded from storage.
func Reconstruct(id int64, profile Profile, passwordHash string, createdAt time.Time) *User {
	return &User{
		id:           id,
		profile:      profile,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

// ID returns the user's ID, zero until persisted
func (u *User) ID() int64 {
	return u.id
}

// AssignID is called by repositories once the row has been inserted.
func (u *User) AssignID(id int64) {
	u.id = id
}

// Username returns the unique login name
func (u *User) Username() string {
	return u.profile.Username
}

// Profile returns a copy of the user's profile
func (u *User) Profile() Profile {
	return u.profile
}

// PasswordHash returns the stored bcrypt hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}
