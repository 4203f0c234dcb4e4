package utils

import "time"

const (
	AppName    = "MecFinder"
	AppVersion = "1.0.0"

	DefaultCountryCode = "+91"
	DefaultCurrency    = "INR"

	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Catalog icons
	MaxIconSize     = 2 * 1024 * 1024 // 2MB
	DefaultIconSize = 256

	// Cache keys
	CacheKeyDashboard     = "dashboard:stats"
	CacheKeyCategories    = "catalog:categories"
	CacheKeyLoginAttempts = "auth:login_attempts:"
	CacheKeyRevokedToken  = "auth:revoked:"

	// Pub/sub channels
	ChannelAdminEvents = "admin:events"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
	ErrInvalidID        = "Invalid ID format"
	ErrInvalidBody      = "Invalid request body"
	ErrTooManyRequests  = "Too many requests"
)

var AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}
