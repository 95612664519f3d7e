package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medhabt/technotes/internal/hash"
	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/models"
	"github.com/medhabt/technotes/internal/repo"
)

// DefaultRoles is applied when a user is registered without any roles.
var DefaultRoles = []string{"Employee"}

type UserService struct {
	Repo     *repo.GormRepo
	Producer Publisher
}

type UpdateUserParams struct {
	ID       uint
	Username string
	Password string
	Roles    []string
	Active   bool
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users found: %w", ErrNotFound)
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	// The lookup gives a clean conflict answer for the common case; the
	// unique index on the folded username closes the remaining race.
	if _, err := s.Repo.FindUserByUsernameFold(ctx, username); err == nil {
		return nil, fmt.Errorf("a user with the same username already exists: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if len(roles) == 0 {
		roles = append([]string(nil), DefaultRoles...)
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Roles:        roles,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("a user with the same username already exists: %w", ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Producer, TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("user created", "user_id", user.ID)
	return &user, nil
}

// Update replaces username, roles and the active flag; the password is
// rehashed only when a new one is supplied.
func (s *UserService) Update(ctx context.Context, p UpdateUserParams) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", p.ID)

	if p.ID == 0 || p.Username == "" || len(p.Roles) == 0 {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with id %d not found: %w", p.ID, ErrNotFound)
		}
		return nil, err
	}

	if dup, err := s.Repo.FindUserByUsernameFold(ctx, p.Username); err == nil {
		if dup.ID != p.ID {
			return nil, fmt.Errorf("a user with the username %s already exists: %w", p.Username, ErrConflict)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user.Username = p.Username
	user.Roles = p.Roles
	user.Active = p.Active

	if p.Password != "" {
		pwHash, err := hash.HashPassword(p.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("a user with the username %s already exists: %w", p.Username, ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Producer, TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_updated",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("user updated")
	return user, nil
}

// Delete removes a user unless notes still reference it.
func (s *UserService) Delete(ctx context.Context, id uint) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	if id == 0 {
		return nil, fmt.Errorf("id of user to be deleted is required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with id %d not found: %w", id, ErrNotFound)
		}
		return nil, err
	}

	count, err := s.Repo.CountUserNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("user has assigned notes: %w", ErrConflict)
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return nil, err
	}

	publish(ctx, s.Producer, TopicUserEvents, fmt.Sprint(id), map[string]any{
		"type":     "user_deleted",
		"userID":   id,
		"username": user.Username,
	})

	l.Info("user deleted")
	return user, nil
}
