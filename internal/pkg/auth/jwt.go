package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// JWTConfig defines session token settings
type JWTConfig struct {
	SecretKey   string
	SessionExp  time.Duration
	TokenIssuer string
}

// JWTService signs and validates the session tokens stored in the session cookie
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Claims defines session token content
type Claims struct {
	DriverID int64  `json:"driverId"`
	Username string `json:"username"`
	Visits   int    `json:"visits"`
	jwt.RegisteredClaims
}

// SessionID returns the identifier shared by every token of one login session
func (c *Claims) SessionID() string {
	return c.ID
}

// IssueSession starts a new session for the driver with no recorded visits
func (s *JWTService) IssueSession(driverID int64, username string) (string, *Claims, error) {
	claims := &Claims{
		DriverID: driverID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatInt(driverID, 10),
			ID:      uuid.New().String(),
		},
	}
	token, err := s.Sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Sign (re)issues claims with a fresh expiry. The session id is preserved.
func (s *JWTService) Sign(claims *Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.config.SessionExp))
	claims.Issuer = s.config.TokenIssuer
	if claims.ID == "" {
		claims.ID = uuid.New().String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a session token and verifies its signature, expiry and issuer
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.DriverID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SessionLifetime returns how long an issued token stays valid
func (s *JWTService) SessionLifetime() time.Duration {
	return s.config.SessionExp
}
