package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrPasswordMismatch   = errors.New("password does not match")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("account not found")
)

const minPasswordLen = 6

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	users store.UserRepository
}

func NewService(users store.UserRepository) *Service {
	return &Service{users: users}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Provider bool
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return domain.User{}, validationError("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, validationError("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, validationError("password must be at least 6 characters")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     in.Provider,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, validationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name        *string
	Email       *string
	AvatarURL   *string
	OldPassword *string
	Password    *string
}

// UpdateProfile applies the provided fields. A changed email is re-checked for
// uniqueness; a new password requires the current one to match first.
func (s *Service) UpdateProfile(ctx context.Context, accountID uuid.UUID, in UpdateProfileInput) (domain.User, error) {
	if accountID == uuid.Nil {
		return domain.User{}, validationError("account_id is required")
	}

	user, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return domain.User{}, validationError("a valid email is required")
		}
		if email != user.Email {
			_, err := s.users.FindByEmail(ctx, email)
			if err == nil {
				return domain.User{}, ErrEmailTaken
			}
			if !errors.Is(err, store.ErrNotFound) {
				return domain.User{}, fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}

	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < minPasswordLen {
			return domain.User{}, validationError("password must be at least 6 characters")
		}
		if in.OldPassword == nil || *in.OldPassword == "" {
			return domain.User{}, validationError("old_password is required to change password")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*in.OldPassword)) != nil {
			return domain.User{}, ErrPasswordMismatch
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.User{}, validationError("name cannot be empty")
		}
		user.Name = name
	}

	if in.AvatarURL != nil {
		user.AvatarURL = in.AvatarURL
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}
