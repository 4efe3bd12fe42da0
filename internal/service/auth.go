package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dooooncan/Stock-Trader/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a user with the configured starting cash. Only the
// bcrypt hash of the password is ever stored.
func (s *Service) Register(ctx context.Context, username, password, confirmation string) (*models.User, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, fmt.Errorf("%w: must provide username", models.ErrValidation)
	case password == "":
		return nil, fmt.Errorf("%w: must provide password", models.ErrValidation)
	case confirmation == "":
		return nil, fmt.Errorf("%w: must confirm password", models.ErrValidation)
	case password != confirmation:
		return nil, fmt.Errorf("%w: passwords must match", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, username, string(hash), s.startingCash)
}

// Authenticate verifies a username/password pair. Unknown user and wrong
// password both return the same ErrAuthentication so failures reveal
// nothing about which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.ErrAuthentication
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, models.ErrAuthentication
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrAuthentication
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}
