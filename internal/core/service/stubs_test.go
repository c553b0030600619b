package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository enforcing the same uniqueness
// rules the storage layer does.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
	// failCreates makes the next n Create calls fail with err, simulating
	// a lost uniqueness race.
	failCreates int
	failWith    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.failCreates > 0 {
		r.failCreates--
		return nil, r.failWith
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByProvider(_ context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.AuthProvider == provider && u.ProviderID == providerID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = active
	return cloneUser(u), nil
}

func (r *stubUserRepo) AdjustFeedbackCount(_ context.Context, id string, delta int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FeedbackCount += delta
	if u.FeedbackCount < 0 {
		u.FeedbackCount = 0
	}
	return nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubUserRepo) Stats(_ context.Context) (*ports.UserStats, error) {
	stats := &ports.UserStats{}
	for _, u := range r.users {
		stats.TotalUsers++
		if u.IsActive {
			stats.ActiveUsers++
		}
		if u.IsAdmin() {
			stats.AdminUsers++
		}
	}
	return stats, nil
}

// stubFeedbackRepo is an in-memory FeedbackRepository.
type stubFeedbackRepo struct {
	items  map[string]*domain.Feedback
	nextID int
}

func newStubFeedbackRepo() *stubFeedbackRepo {
	return &stubFeedbackRepo{items: make(map[string]*domain.Feedback)}
}

func cloneFeedback(fb *domain.Feedback) *domain.Feedback {
	if fb == nil {
		return nil
	}
	clone := *fb
	return &clone
}

func (r *stubFeedbackRepo) Create(_ context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	r.nextID++
	created := cloneFeedback(fb)
	created.ID = fmt.Sprintf("fb_%d", r.nextID)
	r.items[created.ID] = created
	return cloneFeedback(created), nil
}

func (r *stubFeedbackRepo) List(_ context.Context, filter ports.ListFeedbackFilter) ([]*domain.Feedback, int64, error) {
	var all []*domain.Feedback
	for _, fb := range r.items {
		if filter.RecipientID == "" || fb.RecipientID == filter.RecipientID {
			all = append(all, cloneFeedback(fb))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubFeedbackRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	var n int64
	for _, fb := range r.items {
		if fb.RecipientID == recipientID && !fb.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *stubFeedbackRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *stubFeedbackRepo) SetRead(_ context.Context, id, recipientID string, read bool) (*domain.Feedback, error) {
	fb, ok := r.items[id]
	if !ok || fb.RecipientID != recipientID {
		return nil, domain.ErrFeedbackNotFound
	}
	fb.IsRead = read
	return cloneFeedback(fb), nil
}

func (r *stubFeedbackRepo) Delete(_ context.Context, id, recipientID string) error {
	fb, ok := r.items[id]
	if !ok || fb.RecipientID != recipientID {
		return domain.ErrFeedbackNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubFeedbackRepo) DeleteByID(_ context.Context, id string) (*domain.Feedback, error) {
	fb, ok := r.items[id]
	if !ok {
		return nil, domain.ErrFeedbackNotFound
	}
	delete(r.items, id)
	return cloneFeedback(fb), nil
}

func (r *stubFeedbackRepo) DeleteByRecipient(_ context.Context, recipientID string) (int64, error) {
	var removed int64
	for id, fb := range r.items {
		if fb.RecipientID == recipientID {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}
