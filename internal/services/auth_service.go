package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/cache"
	"mecfinder/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, email, password string, actor Actor) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, claims *utils.JWTClaims) error
	Me(ctx context.Context, adminID primitive.ObjectID) (*models.Admin, error)

	// ValidateAccessToken parses a bearer token and rejects revoked ones.
	ValidateAccessToken(ctx context.Context, token string) (*utils.JWTClaims, error)

	// EnsureSeedAdmin creates the first SUPER_ADMIN when no admin exists.
	EnsureSeedAdmin(ctx context.Context, name, email, password string) error
}

type LoginResult struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	ExpiresIn    int64               `json:"expiresIn"`
	Admin        models.AdminProfile `json:"admin"`
}

type AuthConfig struct {
	Tokens          utils.TokenSettings
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type authService struct {
	adminRepo interfaces.AdminRepository
	audit     AuditService
	cache     Cache
	config    AuthConfig
	logger    *logger.Logger
}

func NewAuthService(
	adminRepo interfaces.AdminRepository,
	audit AuditService,
	cache Cache,
	config AuthConfig,
	logger *logger.Logger,
) AuthService {
	if config.LoginRateWindow <= 0 {
		config.LoginRateWindow = time.Minute
	}
	return &authService{
		adminRepo: adminRepo,
		audit:     audit,
		cache:     cache,
		config:    config,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string, actor Actor) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.checkLoginRate(ctx, email); err != nil {
		s.logger.LogSecurityEvent("login_rate_limited", "medium", map[string]interface{}{
			"email": email,
			"ip":    actor.IPAddress,
		})
		return nil, err
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.WithField("email", email).Warn("Login attempt with invalid credentials")
			return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	if !checkPassword(password, admin.Password) {
		s.logger.LogSecurityEvent("login_failed", "low", map[string]interface{}{
			"admin_id": admin.ID.Hex(),
			"ip":       actor.IPAddress,
		})
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	if !admin.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", ErrForbidden)
	}

	result, err := s.issue(admin)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.WithError(err).Warn("Failed to update last login")
	}

	actor.AdminID = admin.ID
	s.audit.Record(ctx, actor, models.AuditActionLogin, "admin", admin.ID.Hex(), nil)
	if s.cache != nil {
		_ = s.cache.Delete(ctx, utils.CacheKeyLoginAttempts+email)
	}

	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := utils.ValidateTokenOfType(refreshToken, s.config.Tokens.Secret, utils.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}
	if s.isRevoked(ctx, claims.ID) {
		return nil, fmt.Errorf("refresh token revoked: %w", ErrUnauthorized)
	}

	admin, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("admin no longer exists: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if !admin.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", ErrForbidden)
	}

	// the old refresh token is single use
	s.revoke(ctx, claims)

	return s.issue(admin)
}

func (s *authService) Logout(ctx context.Context, claims *utils.JWTClaims) error {
	if claims == nil {
		return nil
	}
	s.revoke(ctx, claims)
	return nil
}

func (s *authService) Me(ctx context.Context, adminID primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, translate(err, "admin")
	}
	return admin, nil
}

func (s *authService) ValidateAccessToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateTokenOfType(token, s.config.Tokens.Secret, utils.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}
	if s.isRevoked(ctx, claims.ID) {
		return nil, fmt.Errorf("token revoked: %w", ErrUnauthorized)
	}
	return claims, nil
}

func (s *authService) EnsureSeedAdmin(ctx context.Context, name, email, password string) error {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	if len(password) < utils.PasswordMinLength {
		return fmt.Errorf("seed admin password must be at least %d characters: %w", utils.PasswordMinLength, ErrValidation)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Name:     name,
		Email:    strings.ToLower(email),
		Password: hash,
		Role:     models.AdminRoleSuperAdmin,
		IsActive: true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	s.logger.WithField("email", admin.Email).Info("Seed admin created")
	return nil
}

func (s *authService) issue(admin *models.Admin) (*LoginResult, error) {
	pair, err := utils.GenerateTokenPair(admin.ID, string(admin.Role), admin.Email, s.config.Tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		Admin:        admin.Profile(),
	}, nil
}

func (s *authService) checkLoginRate(ctx context.Context, email string) error {
	if s.cache == nil || s.config.LoginRateLimit <= 0 {
		return nil
	}
	attempts, err := s.cache.Increment(ctx, utils.CacheKeyLoginAttempts+email, s.config.LoginRateWindow)
	if err != nil {
		s.logger.WithError(err).Warn("Login rate limiter unavailable")
		return nil
	}
	if attempts > int64(s.config.LoginRateLimit) {
		return fmt.Errorf("too many login attempts: %w", ErrTooManyAttempts)
	}
	return nil
}

func (s *authService) revoke(ctx context.Context, claims *utils.JWTClaims) {
	if s.cache == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, utils.CacheKeyRevokedToken+claims.ID, true, ttl); err != nil {
		s.logger.WithError(err).Warn("Failed to revoke token")
	}
}

func (s *authService) isRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	var revoked bool
	err := s.cache.Get(ctx, utils.CacheKeyRevokedToken+tokenID, &revoked)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Failed to check token revocation")
		}
		return false
	}
	return revoked
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
