package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

func newAuthService(users *stubUserRepo, feedback *stubFeedbackRepo) *AuthService {
	return NewAuthService(
		users,
		feedback,
		NewPasswordHasher(bcrypt.MinCost),
		NewTokenService("test-secret", time.Hour),
		zerolog.Nop(),
	)
}

func register(t *testing.T, svc *AuthService, email, username string) *domain.User {
	t.Helper()
	user, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Username: username,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestAuthService_Register(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())

	user, token, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Username: "Alice",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Username != "alice" {
		t.Fatalf("username not normalized: %q", user.Username)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %q", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("new user should be active")
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("password not hashed")
	}
}

func TestAuthService_Register_CaseInsensitiveEmailConflict(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())

	register(t, svc, "A@x.com", "first")

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Second",
		Email:    "a@x.com",
		Username: "second",
		Password: "secret123",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_UsernameConflict(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())

	register(t, svc, "one@x.com", "bob")

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Other Bob",
		Email:    "two@x.com",
		Username: "BOB",
		Password: "secret123",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_InvalidUsername(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubFeedbackRepo())

	for _, username := range []string{"ab", "has space", "dollar$", ""} {
		_, _, err := svc.Register(context.Background(), ports.RegisterInput{
			Name:     "X",
			Email:    "x@x.com",
			Username: username,
			Password: "secret123",
		})
		if !errors.Is(err, domain.ErrInvalidUsername) {
			t.Fatalf("username %q: expected ErrInvalidUsername, got %v", username, err)
		}
	}
}

func TestAuthService_Login(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())
	registered := register(t, svc, "alice@x.com", "alice")

	user, token, err := svc.Login(context.Background(), "alice@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
}

func TestAuthService_Login_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())
	register(t, svc, "alice@x.com", "alice")

	_, _, wrongPassword := svc.Login(context.Background(), "alice@x.com", "not-the-password")
	_, _, unknownEmail := svc.Login(context.Background(), "nobody@x.com", "whatever")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())
	user := register(t, svc, "alice@x.com", "alice")

	if _, err := users.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice@x.com", "secret123")
	if !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}

	// Deactivation must only be revealed when the password is right.
	_, _, err = svc.Login(context.Background(), "alice@x.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password on deactivated account: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_FederatedOnlyIdentity(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())

	// No password hash: identity came from a provider.
	_, err := users.Create(context.Background(), &domain.User{
		Email:        "fed@x.com",
		Username:     "fed",
		AuthProvider: domain.ProviderGoogle,
		ProviderID:   "g1",
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, _, err = svc.Login(context.Background(), "fed@x.com", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())
	user := register(t, svc, "alice@x.com", "alice")

	oldHash := users.users[user.ID].PasswordHash

	if err := svc.ChangePassword(context.Background(), user.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if users.users[user.ID].PasswordHash == oldHash {
		t.Fatalf("hash unchanged after password change")
	}

	if _, _, err := svc.Login(context.Background(), "alice@x.com", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@x.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	users := newStubUserRepo()
	svc := newAuthService(users, newStubFeedbackRepo())
	user := register(t, svc, "alice@x.com", "alice")

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newsecret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_DeleteAccount_CascadesFeedback(t *testing.T) {
	users := newStubUserRepo()
	feedback := newStubFeedbackRepo()
	svc := newAuthService(users, feedback)
	user := register(t, svc, "alice@x.com", "alice")

	for i := 0; i < 3; i++ {
		if _, err := feedback.Create(context.Background(), &domain.Feedback{RecipientID: user.ID, Message: "great work indeed"}); err != nil {
			t.Fatalf("seed feedback: %v", err)
		}
	}

	if err := svc.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := users.FindByID(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present: %v", err)
	}
	if n, _ := feedback.Count(context.Background()); n != 0 {
		t.Fatalf("expected 0 feedback after cascade, got %d", n)
	}
}
