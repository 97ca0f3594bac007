// Package auth issues and validates the JWT pair handed out after a
// successful face login. Access tokens are short-lived; refresh tokens
// are signed with a separate secret so a leaked access secret cannot
// mint refresh tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when token validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when token is expired
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidClaims is returned when claims are invalid
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrWrongTokenType is returned when a refresh token is presented as
	// access or vice versa
	ErrWrongTokenType = errors.New("wrong token type")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT claims for a face-authenticated session
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair returned on login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTService handles token issuance and validation
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GeneratePair issues an access/refresh token pair for a user
func (s *JWTService) GeneratePair(userID uuid.UUID, name string) (*TokenPair, error) {
	access, err := s.generate(userID, name, tokenTypeAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.generate(userID, name, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *JWTService) generate(userID uuid.UUID, name, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Name:      name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccess validates an access token and returns its claims
func (s *JWTService) ValidateAccess(tokenString string) (*Claims, error) {
	return s.validate(tokenString, tokenTypeAccess, s.accessSecret)
}

// ValidateRefresh validates a refresh token and returns its claims
func (s *JWTService) ValidateRefresh(tokenString string) (*Claims, error) {
	return s.validate(tokenString, tokenTypeRefresh, s.refreshSecret)
}

func (s *JWTService) validate(tokenString, wantType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// Refresh validates a refresh token and issues a fresh pair
func (s *JWTService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	return s.GeneratePair(claims.UserID, claims.Name)
}
