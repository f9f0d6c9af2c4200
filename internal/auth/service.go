package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/internal/users"
	pkgAuth "github.com/halisidigital/halisi-backend/pkg/auth"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
	"github.com/halisidigital/halisi-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type service struct {
	users   userRepository
	limiter rateLimiter
	jwtCfg  config.JWTConfig
	rateCfg config.AuthRateLimitConfig
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo     userRepository
	RateLimiter  rateLimiter
	JWTConfig    config.JWTConfig
	RateLimitCfg config.AuthRateLimitConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.RateLimiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}
	return &service{
		users:   params.UserRepo,
		limiter: params.RateLimiter,
		jwtCfg:  params.JWTConfig,
		rateCfg: params.RateLimitCfg,
		now:     time.Now,
	}, nil
}

// Login authenticates an admin account and mints an access token. Failed
// attempts are rate limited per email and per client IP before any password
// work happens.
func (s *service) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := s.checkRateLimits(ctx, email, clientIP); err != nil {
		return nil, err
	}

	user, err := s.authenticate(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	payload := pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    uuid.NewString(),
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   s.jwtCfg.ExpirationMinutes * 60,
		User:        users.FromModel(user),
	}, nil
}

func (s *service) checkRateLimits(ctx context.Context, email, clientIP string) error {
	window := s.rateCfg.LoginWindow
	if window <= 0 {
		return nil
	}

	if limit := int64(s.rateCfg.LoginEmailLimit); limit > 0 {
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:email:"+email, limit, window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login rate limit")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later")
		}
	}

	clientIP = strings.TrimSpace(clientIP)
	if limit := int64(s.rateCfg.LoginIPLimit); limit > 0 && clientIP != "" {
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:ip:"+clientIP, limit, window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login rate limit")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later")
		}
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
