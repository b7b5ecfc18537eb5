// This file implements AccountService: registration, authentication,
// profile and password management, and the admin-only user operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/tickethub/internal/common"
	"github.com/dmitrijs2005/tickethub/internal/dbx"
	"github.com/dmitrijs2005/tickethub/internal/logging"
	"github.com/dmitrijs2005/tickethub/internal/server/auth"
	"github.com/dmitrijs2005/tickethub/internal/server/config"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/repomanager"
)

// Password shape limits; the upper bound is the bcrypt input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Length of the random password-reset token in bytes (hex doubles it).
const resetTokenBytes = 32

// AccountService provides account-related operations over the relational
// store. It is single-store: no document or cache coordination is involved.
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	resetTokenValidityDuration  time.Duration
	bcryptCost                  int
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		logger:                      logger,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		resetTokenValidityDuration:  cfg.ResetTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// Register creates a standard-group user. The email must not already be
// registered; the check-then-insert pair leaves a race window against
// concurrent registrations, which is accepted at this layer.
func (s *AccountService) Register(ctx context.Context, email string, password string, fullName string) (*models.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		GroupID:      models.GroupStandard,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
	}
	created, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Authenticate verifies email/password. A missing user and a wrong password
// both return a nil user with no error, so callers cannot distinguish them.
func (s *AccountService) Authenticate(ctx context.Context, email string, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so the miss costs the same as a mismatch
			s.checkPassword(dummyHash, password)
			return nil, nil
		}
		return nil, common.ErrorInternal
	}
	if !s.checkPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

// Login authenticates and mints an access token for the user.
func (s *AccountService) Login(ctx context.Context, email string, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, common.ErrorUnauthorized
	}
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}

// GetProfile returns the user record for userID.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading user: %w", err)
	}
	return user, nil
}

// UpdateProfile rewrites email and full name, re-checking email uniqueness
// when it changes.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, email string, fullName string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if existing, err := repo.GetByEmail(ctx, email); err == nil {
		if existing.ID != userID {
			return nil, common.ErrorAlreadyExists
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	if err := repo.UpdateProfile(ctx, userID, email, fullName); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// UpdatePassword re-verifies oldPassword before storing the new hash.
// Returns false on mismatch or missing user; the caller maps both to one
// generic client error.
func (s *AccountService) UpdatePassword(ctx context.Context, userID string, oldPassword string, newPassword string) (bool, error) {
	if err := validatePassword(newPassword); err != nil {
		return false, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error reading user: %w", err)
	}
	if !s.checkPassword(user.PasswordHash, oldPassword) {
		return false, nil
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return false, common.ErrorInternal
	}
	if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return false, fmt.Errorf("error updating password: %w", err)
	}
	return true, nil
}

// ForgotPassword issues a reset token for the account behind email. When the
// email is unknown it returns an empty token with no error, so the HTTP
// layer can answer identically either way. Token delivery is the caller's
// concern.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error reading user: %w", err)
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return "", common.ErrorInternal
	}
	if err := s.repomanager.PasswordResets(s.db).Create(ctx, user.ID, token, s.resetTokenValidityDuration); err != nil {
		return "", fmt.Errorf("error storing reset token: %w", err)
	}
	return token, nil
}

// ResetPassword validates a reset token, rewrites the password hash and
// burns the token in one transaction.
func (s *AccountService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.repomanager.PasswordResets(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error reading reset token: %w", err)
	}
	if reset.ExpiresAt.Before(time.Now()) {
		return common.ErrResetTokenExpired
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, reset.UserID, hash); err != nil {
			return err
		}
		return s.repomanager.PasswordResets(tx).Delete(ctx, token)
	})
}

// SearchUsers returns all users whose email or full name contains term,
// case-insensitively. Admin-only; the transport layer enforces the role.
// No pagination: the expected corpus is small.
func (s *AccountService) SearchUsers(ctx context.Context, term string) ([]*models.User, error) {
	result, err := s.repomanager.Users(s.db).Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("error searching users: %w", err)
	}
	return result, nil
}

// DeleteUser hard-deletes a user. Self-deletion is rejected; events owned
// by the deleted user are intentionally left in place.
func (s *AccountService) DeleteUser(ctx context.Context, actingUserID string, targetUserID string) error {
	if actingUserID == targetUserID {
		return common.ErrorForbidden
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, targetUserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// --- helpers below ---

// dummyHash is compared against when the email is unknown, to keep the
// rejection path cost independent of account existence.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("tickethub-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

func validatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be between %d and %d characters",
			common.ErrorValidation, MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AccountService) checkPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
