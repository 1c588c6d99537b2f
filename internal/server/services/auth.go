// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login and authorization of the
// session token for admin-only routes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/cryptox"
	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/auth"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/repomanager"
)

// generateToken is a test seam.
var generateToken = auth.GenerateToken

// LoginResult is what a successful login hands to the transport: the token
// for the session cookie and the role reported to the client.
type LoginResult struct {
	Token string
	Role  string
}

type AuthService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                    db,
		repomanager:           m,
		logger:                l.With("module", "auth_service"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a visitor credential. A second registration with the
// same email yields common.ErrAlreadyExists.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.Credential, error) {
	return s.create(ctx, name, email, password, common.RoleVisitor)
}

// CreateAdmin creates a credential with the admin role. It is not reachable
// over HTTP.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.Credential, error) {
	return s.create(ctx, name, email, password, common.RoleAdmin)
}

func (s *AuthService) create(ctx context.Context, name, email, password, role string) (*models.Credential, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		if errors.Is(err, common.ErrPasswordTooLong) {
			return nil, common.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.Credential
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)

		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrAlreadyExists
		}

		created, err = repo.Create(ctx, &models.Credential{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating credential: %w", err)
	}

	return created, nil
}

// Login checks the password of the credential registered under email.
// An unknown email yields common.ErrNoRecord, a wrong password
// common.ErrPasswordIncorrect; neither produces a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Credentials(s.db)

	c, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoRecord
		}
		logging.FromContext(ctx, s.logger).Error(ctx, "credential lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.CheckPassword(c.PasswordHash, password)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error(ctx, "password check failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrPasswordIncorrect
	}

	token, err := generateToken(c.Email, c.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, Role: c.Role}, nil
}

// Authorize admits only a valid, unexpired token whose role is admin.
func (s *AuthService) Authorize(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if claims.Role != common.RoleAdmin {
		return nil, common.ErrForbidden
	}

	return claims, nil
}
