package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: malformed input, bad
// signature, wrong token kind, expired claims. Callers get no finer detail.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims is the stateless bearer credential payload. Verification
// needs no storage lookup.
type AccessClaims struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
	jwt.RegisteredClaims
}

// RefreshClaims additionally carries the ledger key (TokenID) and the device
// the token belongs to. TokenID, not the signed string, is what gets stored.
type RefreshClaims struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
	TokenID   string `json:"tokenId"`
	DeviceID  string `json:"deviceId"`
	jwt.RegisteredClaims
}

// IssuedRefreshToken is what IssueRefresh hands back: the opaque token for
// the client plus the TokenID/ExpiresAt the caller must persist.
type IssuedRefreshToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService signs and verifies both token kinds. Access and refresh
// tokens use separate HMAC secrets: a token of one kind can never verify as
// the other. Expiry is wall clock with no skew tolerance.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (s *TokenService) IssueAccess(userID, userLogin string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		UserID:    userID,
		UserLogin: userLogin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) IssueRefresh(userID, userLogin, deviceID string) (IssuedRefreshToken, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.refreshTTL)
	tokenID := uuid.NewString()

	claims := RefreshClaims{
		UserID:    userID,
		UserLogin: userLogin,
		TokenID:   tokenID,
		DeviceID:  deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return IssuedRefreshToken{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return IssuedRefreshToken{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

func (s *TokenService) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(token, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(token, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	if claims.TokenID == "" || claims.DeviceID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) verify(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
