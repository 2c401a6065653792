// Package services contains server-side business logic. This file implements
// UserService: registration, password login, and issuing/refreshing JWT
// access tokens plus server-stored refresh tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/cryptox"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/server/auth"
	"github.com/dmitrijs2005/moneytracker/internal/server/config"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// timeNow is a seam for tests.
var timeNow = time.Now

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type registration struct {
	UserName string `validate:"required,notblank,min=3,max=30"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=4"`
}

var registrationMessages = map[string]string{
	"UserName.required": "Username is required",
	"UserName.notblank": "Username is required",
	"UserName.min":      "Username must be between 3 and 30 characters",
	"UserName.max":      "Username must be between 3 and 30 characters",
	"Email.email":       "Please provide a valid email",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 4 characters",
}

// UserService provides account operations:
//   - Register: create users
//   - Authenticate / Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - UserFromToken: resolve the caller of an authenticated request
type UserService struct {
	tr                           dbx.Transactor
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	validate                     *validator.Validate
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(tr dbx.Transactor, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("notblank", validators.NotBlank)

	return &UserService{
		tr:                           tr,
		repomanager:                  m,
		logger:                       logger.With("service", "users"),
		validate:                     validate,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a user. A blank email is stored as absent. Only the
// bcrypt hash of password is kept.
func (s *UserService) Register(ctx context.Context, userName, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := s.validateRegistration(registration{UserName: userName, Email: email, Password: password}); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.tr.Conn())

	taken, err := repo.ExistsByUserName(ctx, userName)
	if err != nil {
		return nil, classify(ctx, s.logger, "register", err)
	}
	if taken {
		return nil, ErrUserNameTaken
	}
	if email != "" {
		taken, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, classify(ctx, s.logger, "register", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, classify(ctx, s.logger, "hash password", err)
	}

	user := &models.User{UserName: userName, PasswordHash: hash}
	if email != "" {
		user.Email = &email
	}

	err = s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, user)
		return err
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrorConflict) {
			return nil, s.conflictReason(ctx, userName, email)
		}
		return nil, classify(ctx, s.logger, "register", err)
	}

	s.logger.Info(ctx, "user registered", "user", userName)
	return user, nil
}

// conflictReason tells which unique field a failed insert collided on.
func (s *UserService) conflictReason(ctx context.Context, userName, email string) error {
	repo := s.repomanager.Users(s.tr.Conn())
	if taken, err := repo.ExistsByUserName(ctx, userName); err == nil && taken {
		return ErrUserNameTaken
	}
	if email != "" {
		if taken, err := repo.ExistsByEmail(ctx, email); err == nil && taken {
			return ErrEmailTaken
		}
	}
	return ErrUserNameTaken
}

// Authenticate returns the user whose password matches. Unknown users and
// wrong passwords both yield ErrInvalidCredentials after a bcrypt compare.
func (s *UserService) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.tr.Conn()).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword("", password)
			return nil, ErrInvalidCredentials
		}
		return nil, classify(ctx, s.logger, "authenticate", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and, on success, returns a new TokenPair.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.User, *TokenPair, error) {
	user, err := s.Authenticate(ctx, userName, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// IssueTokens mints an access token for user and stores a new refresh token.
func (s *UserService) IssueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	var pair *TokenPair
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns the owner with a fresh TokenPair. Expired tokens yield
// ErrRefreshTokenExpired, unknown ones ErrInvalidToken.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	var (
		user *models.User
		pair *TokenPair
	)
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.RefreshTokens(tx)

		token, err := tokens.Find(ctx, cryptox.TokenDigest(refreshToken))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if err := tokens.Delete(ctx, token.Token); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if token.Expires.Before(timeNow()) {
			return common.ErrRefreshTokenExpired
		}

		user, err = s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}

		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if errors.Is(err, common.ErrRefreshTokenExpired) {
		// the expired token is gone either way
		_ = s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			return s.repomanager.RefreshTokens(tx).Delete(ctx, cryptox.TokenDigest(refreshToken))
		})
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, classify(ctx, s.logger, "refresh token", err)
	}
	return user, pair, nil
}

// UserFromToken verifies an access token and loads the user it names.
// Users deleted after the token was issued yield ErrInvalidToken.
func (s *UserService) UserFromToken(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users(s.tr.Conn()).GetByUserName(ctx, claims.UserName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, classify(ctx, s.logger, "resolve token", err)
	}
	return user, nil
}

// FindByUsername returns ErrUserNotFound when absent.
func (s *UserService) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	user, err := s.repomanager.Users(s.tr.Conn()).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, classify(ctx, s.logger, "find user", err)
	}
	return user, nil
}

// Exists reports whether userName is registered.
func (s *UserService) Exists(ctx context.Context, userName string) (bool, error) {
	ok, err := s.repomanager.Users(s.tr.Conn()).ExistsByUserName(ctx, userName)
	if err != nil {
		return false, classify(ctx, s.logger, "check username", err)
	}
	return ok, nil
}

// EmailExists reports whether email belongs to a registered user.
func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	ok, err := s.repomanager.Users(s.tr.Conn()).ExistsByEmail(ctx, email)
	if err != nil {
		return false, classify(ctx, s.logger, "check email", err)
	}
	return ok, nil
}

// --- helpers below ---

func (s *UserService) validateRegistration(r registration) error {
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := registrationMessages[verrs[0].Field()+"."+verrs[0].Tag()]; ok {
			return common.NewError(common.ErrorInvalidInput, msg)
		}
	}
	return common.NewError(common.ErrorInvalidInput, "Invalid registration data")
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}
	token := &models.RefreshToken{
		UserID:  user.ID,
		Token:   cryptox.TokenDigest(refresh),
		Expires: timeNow().Add(s.refreshTokenValidityDuration),
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, token); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
