package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService persists the opaque current-user record.
type AccountService struct {
	store driven.StateStore

	mu   sync.RWMutex
	user *domain.User
}

// NewAccountService creates an account service. A nil store keeps the user in memory only.
func NewAccountService(store driven.StateStore) *AccountService {
	return &AccountService{store: store}
}

// Load restores the persisted user. Missing or unparsable records mean signed out.
func (s *AccountService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if s.store == nil {
		return nil
	}

	data, err := s.store.Load(ctx, domain.RecordUser)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("reading %s failed: %v", domain.RecordUser, err)
		}
		return nil
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		logger.Warn("record %s is not valid JSON, signing out: %v", domain.RecordUser, err)
		return nil
	}
	if err := validate.Struct(u); err != nil {
		logger.Warn("record %s is invalid, signing out: %s", domain.RecordUser, describeValidation(err))
		return nil
	}
	s.user = &u
	return nil
}

// Login validates and stores the user record.
func (s *AccountService) Login(ctx context.Context, user domain.User) (domain.SaveResult, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if err := validate.Struct(user); err != nil {
		return domain.SaveResult{Status: domain.SaveSkipped, Key: domain.RecordUser},
			fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	logger.Debug("signed in as %s (%s)", user.Email, user.Role)
	return persistRecord(ctx, s.store, domain.RecordUser, user), nil
}

// Logout clears the user record.
func (s *AccountService) Logout(ctx context.Context) domain.SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if s.store == nil {
		return domain.SaveResult{Status: domain.SaveSkipped, Key: domain.RecordUser}
	}
	if err := s.store.Delete(ctx, domain.RecordUser); err != nil {
		logger.Warn("removing %s failed: %v", domain.RecordUser, err)
		return domain.SaveResult{Status: domain.SaveIOError, Key: domain.RecordUser, Err: err}
	}
	return domain.SaveResult{Status: domain.SaveOK, Key: domain.RecordUser}
}

// Current returns a copy of the signed-in user, or nil.
func (s *AccountService) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}
