package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenmandi/greenmandi-backend/internal/users"
	pkgauth "github.com/greenmandi/greenmandi-backend/pkg/auth"
	"github.com/greenmandi/greenmandi-backend/pkg/auth/session"
	"github.com/greenmandi/greenmandi-backend/pkg/config"
	"github.com/greenmandi/greenmandi-backend/pkg/db/models"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/security"
)

// Store is the account persistence surface the auth service consumes.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Sessions is the refresh-token surface backed by Redis.
type Sessions interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service signs accounts up, in, and out.
type Service interface {
	Register(ctx context.Context, in RegisterInput) (AuthView, error)
	Login(ctx context.Context, in LoginInput) (AuthView, error)
	Refresh(ctx context.Context, in RefreshInput) (TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	store       Store
	sessions    Sessions
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

func NewService(store Store, sessions Sessions, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("auth: store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("auth: session manager is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("auth: logger is required")
	}
	return &service{
		store:       store,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, in RegisterInput) (AuthView, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return AuthView{}, errors.New(errors.CodeConflict, "email already registered")
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return AuthView{}, errors.Wrap(errors.CodeDependency, err, "checking email")
	}

	hash, err := security.HashPassword(in.Password, s.passwordCfg)
	if err != nil {
		return AuthView{}, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	language := in.Language
	if language == "" {
		language = "en"
	}
	row := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         enums.UserRoleCustomer,
		Language:     language,
	}
	if err := s.store.Create(ctx, &row); err != nil {
		return AuthView{}, errors.Wrap(errors.CodeDependency, err, "creating account")
	}

	tokens, err := s.issueTokens(ctx, row)
	if err != nil {
		return AuthView{}, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, row.ID.String()), "account registered")
	return AuthView{User: toProfileView(row), Tokens: tokens}, nil
}

func (s *service) Login(ctx context.Context, in LoginInput) (AuthView, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	row, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return AuthView{}, invalidCredentials()
		}
		return AuthView{}, errors.Wrap(errors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(in.Password, row.PasswordHash)
	if err != nil {
		return AuthView{}, errors.Wrap(errors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return AuthView{}, invalidCredentials()
	}

	now := s.now()
	if err := s.store.TouchLastLogin(ctx, row.ID, now); err != nil {
		// Login still succeeds; the timestamp is advisory.
		s.logg.Warn(s.logg.WithUserID(ctx, row.ID.String()), "updating last login failed")
	}

	tokens, err := s.issueTokens(ctx, row)
	if err != nil {
		return AuthView{}, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, row.ID.String()), "login succeeded")
	return AuthView{User: toProfileView(row), Tokens: tokens}, nil
}

func (s *service) Refresh(ctx context.Context, in RefreshInput) (TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, in.AccessToken)
	if err != nil {
		return TokenPair{}, errors.New(errors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, in.RefreshToken)
	if err != nil {
		if stdErrors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPair{}, errors.New(errors.CodeUnauthorized, "invalid refresh token")
		}
		return TokenPair{}, errors.Wrap(errors.CodeDependency, err, "rotating session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return TokenPair{}, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}

	return s.tokenPair(access, newRefresh), nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "revoking session")
	}
	s.logg.Info(ctx, "logout")
	return nil
}

func (s *service) issueTokens(ctx context.Context, row models.User) (TokenPair, error) {
	accessID := session.NewAccessID()
	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: row.ID,
		Role:   row.Role,
		JTI:    accessID,
	})
	if err != nil {
		return TokenPair{}, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return TokenPair{}, errors.Wrap(errors.CodeDependency, err, "creating session")
	}
	return s.tokenPair(access, refresh), nil
}

func (s *service) tokenPair(access, refresh string) TokenPair {
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}
}

func invalidCredentials() error {
	// One message for unknown email and wrong password.
	return errors.New(errors.CodeUnauthorized, "invalid email or password")
}

func toProfileView(u models.User) users.ProfileView {
	return users.ProfileView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Address:   u.Address,
		Avatar:    u.AvatarKey,
		Role:      u.Role,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
	}
}
