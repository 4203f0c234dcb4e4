package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type JWTClaims struct {
	AdminID   primitive.ObjectID `json:"admin_id"`
	Role      string             `json:"role"`
	Email     string             `json:"email"`
	TokenType string             `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

type TokenSettings struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s TokenSettings) withDefaults() TokenSettings {
	if s.AccessTTL <= 0 {
		s.AccessTTL = JWTAccessTokenTTL
	}
	if s.RefreshTTL <= 0 {
		s.RefreshTTL = JWTRefreshTokenTTL
	}
	return s
}

func signToken(adminID primitive.ObjectID, role, email, tokenType string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		AdminID:   adminID,
		Role:      role,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    AppName,
			Subject:   adminID.Hex(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateTokenPair(adminID primitive.ObjectID, role, email string, settings TokenSettings) (*TokenPair, error) {
	settings = settings.withDefaults()

	accessToken, err := signToken(adminID, role, email, TokenTypeAccess, settings.AccessTTL, settings.Secret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := signToken(adminID, role, email, TokenTypeRefresh, settings.RefreshTTL, settings.Secret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(settings.AccessTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func ValidateToken(tokenString, secretKey string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateTokenOfType validates the token and checks it was issued for the given use.
func ValidateTokenOfType(tokenString, secretKey, tokenType string) (*JWTClaims, error) {
	claims, err := ValidateToken(tokenString, secretKey)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
