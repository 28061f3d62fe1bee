package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"

	"qbank/internal/auth"
	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type UserService struct {
	users  interfaces.UserRepository
	hasher auth.PasswordHasher
	now    func() time.Time
}

func NewUserService(users interfaces.UserRepository, hasher auth.PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, badRequest("email_taken", MsgUserEmailTaken)
	case !errors.Is(err, interfaces.ErrNotFound):
		return nil, oops.In("users").Code("REGISTER_FAILED").Wrap(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.In("users").Code("REGISTER_FAILED").Wrap(err)
	}

	u, err := models.NewUser(req.Name, email, hash, s.now())
	if err != nil {
		if appErr, ok := fromValidation(err); ok {
			return nil, appErr
		}
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			return nil, badRequest("email_taken", MsgUserEmailTaken)
		}
		return nil, oops.In("users").Code("REGISTER_FAILED").Wrap(err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, oops.In("users").Code("LIST_USERS_FAILED").Wrap(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("user_not_found", MsgUserNotFound)
		}
		return nil, oops.In("users").Code("GET_USER_FAILED").With("user_id", id).Wrap(err)
	}
	return u, nil
}

// Edit updates the profile of id on behalf of actorID. Users may only edit
// themselves.
func (s *UserService) Edit(ctx context.Context, actorID, id string, req models.UpdateUserRequest) (*models.User, error) {
	if actorID != id {
		return nil, forbidden("forbidden", MsgEditOwnProfile)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, badRequest("validation_error", "Name is required.")
		}
		req.Name = &name
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
		if !strings.EqualFold(email, current.Email) {
			other, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != id:
				return nil, badRequest("email_taken", MsgEmailInUse)
			case err != nil && !errors.Is(err, interfaces.ErrNotFound):
				return nil, oops.In("users").Code("EDIT_USER_FAILED").With("user_id", id).Wrap(err)
			}
		}
	}

	if err := s.users.UpdateProfile(ctx, id, &req); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, notFound("user_not_found", MsgUserNotFound)
		case errors.Is(err, interfaces.ErrConflict):
			return nil, badRequest("email_taken", MsgEmailInUse)
		}
		return nil, oops.In("users").Code("EDIT_USER_FAILED").With("user_id", id).Wrap(err)
	}

	return s.Get(ctx, id)
}
