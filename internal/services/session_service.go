package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidLoginOrEmail = errors.New("invalid credentials")
	ErrInvalidPassword     = errors.New("invalid credentials")
	ErrEmailNotConfirmed   = errors.New("email not confirmed")

	// ErrInvalidRefreshToken covers a missing cookie, a garbled or expired
	// token, and a ledger entry that is absent or already flipped invalid.
	// The loser of a concurrent rotation race lands here too: from its
	// perspective the token it held is simply no longer valid.
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or revoked")

	ErrDeviceForbidden = errors.New("device belongs to another user")
	ErrDeviceNotFound  = errors.New("device not found")

	// ErrNoActiveToken is returned by SessionStore commands whose conditional
	// update matched no active ledger entry.
	ErrNoActiveToken = errors.New("no active ledger entry for token")

	ErrUserNotFound = errors.New("user not found")
)

// SessionStore is the persistence collaborator for the session state
// machine. Each method is one atomic command; RotateToken and
// InvalidateToken in particular must apply their check-and-flip atomically
// relative to concurrent calls on the same ledger entry, otherwise two
// refreshes with the same token could both mint a valid successor.
type SessionStore interface {
	UserByLoginOrEmail(loginOrEmail string) (*models.User, error)
	UserByID(id uuid.UUID) (*models.User, error)

	// CreateSession appends a device row and its first ledger entry.
	CreateSession(device models.DeviceSession, entry models.RefreshToken) error

	// RotateToken flips the entry with oldTokenID invalid only if it is still
	// valid, appends the successor entry, and bumps the device's
	// LastActiveDate, all as one unit. Returns ErrNoActiveToken when the
	// entry is absent, already rotated, or already revoked.
	RotateToken(userID uuid.UUID, oldTokenID string, successor models.RefreshToken) error

	// InvalidateToken flips one entry invalid; ErrNoActiveToken if it was
	// not active. Double logout is therefore observable, not silently ok.
	InvalidateToken(userID uuid.UUID, tokenID string) error

	RemoveDevice(userID uuid.UUID, deviceID string) error
	Devices(userID uuid.UUID) ([]models.DeviceSession, error)

	// RevokeOtherDevices invalidates every ledger entry of the user except
	// those of keepDeviceID and removes all other device rows.
	RevokeOtherDevices(userID uuid.UUID, keepDeviceID string) error

	// RevokeDevice invalidates the device's ledger entries and removes its
	// row. The caller has already established ownership.
	RevokeDevice(userID uuid.UUID, deviceID string) error

	// DeviceOwner reports which user a deviceID belongs to, across all
	// users; ErrDeviceNotFound when it exists nowhere.
	DeviceOwner(deviceID string) (uuid.UUID, error)

	// InvalidateAllSessions flips every ledger entry of the user and clears
	// the device list. Used by the password-reset cascade.
	InvalidateAllSessions(userID uuid.UUID) error
}

// SessionService orchestrates login, refresh, logout and revocation. It owns
// no state: tokens come from TokenService, persistence from SessionStore.
type SessionService struct {
	store  SessionStore
	tokens *TokenService
}

func NewSessionService(store SessionStore, tokens *TokenService) *SessionService {
	return &SessionService{store: store, tokens: tokens}
}

// SessionTokens is a freshly minted pair. The access token goes in the
// response body, the refresh token in the httpOnly cookie.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// Login verifies credentials and opens a new device session. A login never
// reuses an existing device: every call mints a fresh deviceId.
func (s *SessionService) Login(loginOrEmail, password, ip, userAgent string) (SessionTokens, error) {
	user, err := s.store.UserByLoginOrEmail(loginOrEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return SessionTokens{}, ErrInvalidLoginOrEmail
		}
		return SessionTokens{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return SessionTokens{}, ErrInvalidPassword
	}

	if !user.IsConfirmed {
		return SessionTokens{}, ErrEmailNotConfirmed
	}

	deviceID := uuid.NewString()
	now := time.Now().UTC()

	accessToken, err := s.tokens.IssueAccess(user.ID.String(), user.Login)
	if err != nil {
		return SessionTokens{}, err
	}

	refresh, err := s.tokens.IssueRefresh(user.ID.String(), user.Login, deviceID)
	if err != nil {
		return SessionTokens{}, err
	}

	device := models.DeviceSession{
		UserID:         user.ID,
		DeviceID:       deviceID,
		IP:             ip,
		Title:          userAgent,
		LastActiveDate: now,
	}
	entry := models.RefreshToken{
		UserID:    user.ID,
		TokenID:   refresh.TokenID,
		DeviceID:  deviceID,
		IsValid:   true,
		CreatedAt: now,
		ExpiresAt: refresh.ExpiresAt,
	}

	if err := s.store.CreateSession(device, entry); err != nil {
		return SessionTokens{}, fmt.Errorf("persist session: %w", err)
	}

	slog.Info("session opened", "user_id", user.ID.String(), "device_id", deviceID, "ip", ip)
	return SessionTokens{AccessToken: accessToken, RefreshToken: refresh.Token}, nil
}

// Refresh rotates a refresh token: the presented token's ledger entry flips
// invalid and a successor for the same device is appended, as one atomic
// command. The ledger, not the signature, is authoritative for liveness; a
// replayed token with a perfectly valid signature still fails here.
func (s *SessionService) Refresh(refreshToken string) (SessionTokens, error) {
	user, claims, err := s.authenticate(refreshToken)
	if err != nil {
		return SessionTokens{}, err
	}

	accessToken, err := s.tokens.IssueAccess(user.ID.String(), user.Login)
	if err != nil {
		return SessionTokens{}, err
	}

	next, err := s.tokens.IssueRefresh(user.ID.String(), user.Login, claims.DeviceID)
	if err != nil {
		return SessionTokens{}, err
	}

	successor := models.RefreshToken{
		UserID:    user.ID,
		TokenID:   next.TokenID,
		DeviceID:  claims.DeviceID,
		IsValid:   true,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: next.ExpiresAt,
	}

	if err := s.store.RotateToken(user.ID, claims.TokenID, successor); err != nil {
		if errors.Is(err, ErrNoActiveToken) {
			// Replay detection: already rotated or revoked, or lost the
			// race to a concurrent refresh.
			return SessionTokens{}, ErrInvalidRefreshToken
		}
		return SessionTokens{}, fmt.Errorf("rotate token: %w", err)
	}

	return SessionTokens{AccessToken: accessToken, RefreshToken: next.Token}, nil
}

// Logout closes the presented token's device session. Presenting an already
// invalid token fails: double logout is rejected, not absorbed.
func (s *SessionService) Logout(refreshToken string) error {
	user, claims, err := s.authenticate(refreshToken)
	if err != nil {
		return err
	}

	if err := s.store.InvalidateToken(user.ID, claims.TokenID); err != nil {
		if errors.Is(err, ErrNoActiveToken) {
			return ErrInvalidRefreshToken
		}
		return fmt.Errorf("invalidate token: %w", err)
	}

	if err := s.store.RemoveDevice(user.ID, claims.DeviceID); err != nil {
		return fmt.Errorf("remove device: %w", err)
	}

	slog.Info("session closed", "user_id", user.ID.String(), "device_id", claims.DeviceID)
	return nil
}

// ListDevices returns the caller's device sessions. It deliberately does not
// filter on ledger validity: a device row briefly without an active ledger
// entry is legitimate drift between rotation and the next refresh.
func (s *SessionService) ListDevices(refreshToken string) ([]models.DeviceSession, error) {
	user, _, err := s.authenticate(refreshToken)
	if err != nil {
		return nil, err
	}

	devices, err := s.store.Devices(user.ID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// RevokeOtherDevices keeps only the caller's own device session alive.
func (s *SessionService) RevokeOtherDevices(refreshToken string) error {
	user, claims, err := s.authenticate(refreshToken)
	if err != nil {
		return err
	}

	if err := s.store.RevokeOtherDevices(user.ID, claims.DeviceID); err != nil {
		return fmt.Errorf("revoke other devices: %w", err)
	}

	slog.Info("other devices revoked", "user_id", user.ID.String(), "kept_device_id", claims.DeviceID)
	return nil
}

// RevokeDevice closes one device session by id. A device owned by another
// user yields ErrDeviceForbidden; a device that exists nowhere yields
// ErrDeviceNotFound. Ownership mismatch and total absence stay
// distinguishable.
func (s *SessionService) RevokeDevice(refreshToken, targetDeviceID string) error {
	user, _, err := s.authenticate(refreshToken)
	if err != nil {
		return err
	}

	ownerID, err := s.store.DeviceOwner(targetDeviceID)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("find device owner: %w", err)
	}
	if ownerID != user.ID {
		return ErrDeviceForbidden
	}

	if err := s.store.RevokeDevice(user.ID, targetDeviceID); err != nil {
		return fmt.Errorf("revoke device: %w", err)
	}
	return nil
}

// authenticate runs the shared verification prefix of every refresh-cookie
// operation: signature+expiry check, then user lookup.
func (s *SessionService) authenticate(refreshToken string) (*models.User, *RefreshClaims, error) {
	if refreshToken == "" {
		return nil, nil, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.store.UserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	return user, claims, nil
}
