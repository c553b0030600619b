package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

type stubFeedbackService struct {
	submitFn  func(ctx context.Context, username string, input ports.SubmitFeedbackInput) (*domain.Feedback, error)
	listFn    func(ctx context.Context, recipientID string, page, limit int) (*ports.FeedbackPage, error)
	setReadFn func(ctx context.Context, recipientID, feedbackID string, read bool) (*domain.Feedback, error)
	deleteFn  func(ctx context.Context, recipientID, feedbackID string) error
}

func (s *stubFeedbackService) Submit(ctx context.Context, username string, input ports.SubmitFeedbackInput) (*domain.Feedback, error) {
	return s.submitFn(ctx, username, input)
}

func (s *stubFeedbackService) List(ctx context.Context, recipientID string, page, limit int) (*ports.FeedbackPage, error) {
	return s.listFn(ctx, recipientID, page, limit)
}

func (s *stubFeedbackService) SetRead(ctx context.Context, recipientID, feedbackID string, read bool) (*domain.Feedback, error) {
	return s.setReadFn(ctx, recipientID, feedbackID, read)
}

func (s *stubFeedbackService) Delete(ctx context.Context, recipientID, feedbackID string) error {
	return s.deleteFn(ctx, recipientID, feedbackID)
}

func TestUserHandler_Profile_Success(t *testing.T) {
	users := &stubUserService{
		publicProfileFn: func(_ context.Context, username string) (domain.PublicProfile, error) {
			if username != "alice" {
				t.Fatalf("unexpected username: %s", username)
			}
			return domain.PublicProfile{Username: "alice", Name: "Alice", FeedbackCount: 3}, nil
		},
	}
	handler := NewUserHandler(users, &stubFeedbackService{})

	_, c, rec := newTestContext(t, http.MethodGet, "/api/users/alice", "")
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["email"]; leaked {
		t.Fatalf("public profile must not expose email")
	}
}

func TestUserHandler_Profile_InvalidUsername(t *testing.T) {
	handler := NewUserHandler(&stubUserService{}, &stubFeedbackService{})

	e, c, rec := newTestContext(t, http.MethodGet, "/api/users/a!", "")
	c.SetParamNames("username")
	c.SetParamValues("a!")

	if err := handler.Profile(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Profile_NotFound(t *testing.T) {
	users := &stubUserService{
		publicProfileFn: func(context.Context, string) (domain.PublicProfile, error) {
			return domain.PublicProfile{}, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(users, &stubFeedbackService{})

	_, c, _ := newTestContext(t, http.MethodGet, "/api/users/ghost", "")
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	if err := handler.Profile(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_SubmitFeedback_Success(t *testing.T) {
	feedback := &stubFeedbackService{
		submitFn: func(_ context.Context, username string, input ports.SubmitFeedbackInput) (*domain.Feedback, error) {
			if username != "alice" {
				t.Fatalf("unexpected username: %s", username)
			}
			if input.SenderName != "Bob" || input.IsAnonymous {
				t.Fatalf("input not forwarded: %+v", input)
			}
			return &domain.Feedback{
				ID:          "f1",
				RecipientID: "u1",
				Message:     input.Message,
				SenderName:  input.SenderName,
				CreatedAt:   time.Now(),
			}, nil
		},
	}
	handler := NewUserHandler(&stubUserService{}, feedback)

	_, c, rec := newTestContext(t, http.MethodPost, "/api/users/alice/feedback",
		`{"message":"great talk, thanks for sharing","sender_name":"Bob"}`)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.SubmitFeedback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	fb, ok := resp["feedback"].(map[string]any)
	if !ok || fb["id"] != "f1" {
		t.Fatalf("unexpected feedback payload: %+v", resp["feedback"])
	}
	if _, leaked := fb["sender_name"]; leaked {
		t.Fatalf("submission receipt must not echo the sender")
	}
}

func TestUserHandler_SubmitFeedback_MessageTooShort(t *testing.T) {
	feedback := &stubFeedbackService{
		submitFn: func(context.Context, string, ports.SubmitFeedbackInput) (*domain.Feedback, error) {
			return nil, domain.ErrMessageTooShort
		},
	}
	handler := NewUserHandler(&stubUserService{}, feedback)

	_, c, _ := newTestContext(t, http.MethodPost, "/api/users/alice/feedback",
		`{"message":"short"}`)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.SubmitFeedback(c); !errors.Is(err, domain.ErrMessageTooShort) {
		t.Fatalf("expected ErrMessageTooShort, got %v", err)
	}
}

func TestUserHandler_SubmitFeedback_BadSenderEmail(t *testing.T) {
	feedback := &stubFeedbackService{
		submitFn: func(context.Context, string, ports.SubmitFeedbackInput) (*domain.Feedback, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(&stubUserService{}, feedback)

	e, c, rec := newTestContext(t, http.MethodPost, "/api/users/alice/feedback",
		`{"message":"a perfectly fine message","sender_email":"not-an-email"}`)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.SubmitFeedback(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
