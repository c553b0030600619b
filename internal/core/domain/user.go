package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthProvider identifies where an identity's credentials live.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderGitHub AuthProvider = "github"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
	PasswordMinLen = 6
	NameMaxLen     = 50
	BioMaxLen      = 200
)

var ErrInvalidCredentials = errors.New("incorrect email or password")
var ErrAccountDeactivated = errors.New("account deactivated")
var ErrEmailTaken = errors.New("email already registered")
var ErrUsernameTaken = errors.New("username already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidUsername = errors.New("invalid username format")
var ErrForbidden = errors.New("access forbidden")

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// User models a registered identity, local or federated.
// PasswordHash is empty for identities created through a federated provider;
// the password login path rejects an empty hash before comparing.
type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email,omitempty"`
	Username      string       `json:"username"`
	Name          string       `json:"name"`
	Bio           string       `json:"bio,omitempty"`
	Avatar        string       `json:"avatar,omitempty"`
	PasswordHash  string       `json:"-"`
	AuthProvider  AuthProvider `json:"auth_provider"`
	ProviderID    string       `json:"-"`
	Role          string       `json:"role"`
	IsActive      bool         `json:"is_active"`
	FeedbackCount int64        `json:"feedback_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidUsername reports whether s satisfies the username format:
// 3-30 characters drawn from letters, digits, underscore, hyphen.
func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// NormalizeEmail lower-cases and trims an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername lower-cases and trims a username. Format validation is
// separate (ValidUsername).
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// PublicProfile is the projection served on the public profile route. It is
// built deliberately at response time rather than by stripping fields from
// User during serialization.
type PublicProfile struct {
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Bio           string    `json:"bio,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	FeedbackCount int64     `json:"feedback_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile returns the public projection of u.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		Username:      u.Username,
		Name:          u.Name,
		Bio:           u.Bio,
		Avatar:        u.Avatar,
		FeedbackCount: u.FeedbackCount,
		CreatedAt:     u.CreatedAt,
	}
}
