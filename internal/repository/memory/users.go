package memory

import (
	"context"
	"strings"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return interfaces.ErrConflict
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.ts()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *userRepository) ListAll(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sortBy(out, func(a, b models.User) bool { return a.CreatedAt.After(b.CreatedAt) })
	return out, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, req *models.UpdateUserRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if req.Email != nil {
		if r.emailTaken(*req.Email, id) {
			return interfaces.ErrConflict
		}
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	r.s.users[id] = u
	return nil
}

// emailTaken must be called with the lock held.
func (r *userRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
