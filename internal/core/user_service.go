package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"minigold/internal/store"
)

const minPasswordLength = 8

var userFields = store.SchemaOf(store.TableUser).Columns

type userService struct {
	store store.Querier
	opts  Options
}

// NewUserService constructs a UserService.
func NewUserService(q store.Querier, opts Options) UserService {
	return &userService{store: q, opts: opts.withDefaults()}
}

func (s *userService) Create(ctx context.Context, username, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationf("username is required")
	}
	if len(password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}
	if !ValidRole(role) {
		return nil, validationf("unknown role %q", role)
	}
	if _, err := s.GetByUsername(ctx, username); err == nil {
		return nil, validationf("username %q is taken", username)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.opts.Clock(),
	}
	u.ID, err = s.store.Insert(ctx, store.TableUser, store.Row{
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
		"is_active":     u.IsActive,
		"created":       u.CreatedAt,
	})
	if err != nil {
		return nil, persistence(s.opts.Logger, "user.create", err, "username", username)
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, validationf("invalid username or password")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, validationf("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, validationf("invalid username or password")
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	rows, err := s.store.SelectWhere(ctx, store.TableUser, store.Select{
		Fields: userFields,
		Where:  []store.Cond{store.Eq("username", strings.TrimSpace(username))},
		Limit:  1,
	})
	if err != nil {
		return nil, persistence(s.opts.Logger, "user.get", err)
	}
	if len(rows) == 0 {
		return nil, notFoundf("user %q", username)
	}
	return userFromRow(rows[0]), nil
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*User, error) {
	row, err := s.store.SelectByID(ctx, store.TableUser, userFields, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundf("user id=%d", userID)
	}
	if err != nil {
		return nil, persistence(s.opts.Logger, "user.get", err)
	}
	return userFromRow(row), nil
}

func userFromRow(r store.Row) *User {
	return &User{
		ID:           r.Int64("id_user"),
		Username:     r.String("username"),
		PasswordHash: r.String("password_hash"),
		Role:         r.String("role"),
		IsActive:     r.Bool("is_active"),
		CreatedAt:    r.Time("created"),
	}
}
