package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory SessionStore with the same command semantics as
// the gorm-backed repository, including the conditional check-and-flip rules.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	ledger  []*models.RefreshToken
	devices []*models.DeviceSession
}

func newMemStore() *memStore {
	return &memStore{users: map[uuid.UUID]*models.User{}}
}

func (m *memStore) addUser(login, email, password string, confirmed bool) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &models.User{
		ID:           uuid.New(),
		Login:        login,
		Email:        email,
		PasswordHash: string(hash),
		IsConfirmed:  confirmed,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) UserByLoginOrEmail(loginOrEmail string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == loginOrEmail || u.Email == loginOrEmail {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) UserByID(id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *memStore) CreateSession(device models.DeviceSession, entry models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices = append(m.devices, &device)
	m.ledger = append(m.ledger, &entry)
	return nil
}

func (m *memStore) RotateToken(userID uuid.UUID, oldTokenID string, successor models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.ledger {
		if e.UserID == userID && e.TokenID == oldTokenID && e.IsValid {
			e.IsValid = false
			m.ledger = append(m.ledger, &successor)
			for _, d := range m.devices {
				if d.UserID == userID && d.DeviceID == successor.DeviceID {
					d.LastActiveDate = successor.CreatedAt
				}
			}
			return nil
		}
	}
	return ErrNoActiveToken
}

func (m *memStore) InvalidateToken(userID uuid.UUID, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.ledger {
		if e.UserID == userID && e.TokenID == tokenID && e.IsValid {
			e.IsValid = false
			return nil
		}
	}
	return ErrNoActiveToken
}

func (m *memStore) RemoveDevice(userID uuid.UUID, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.devices[:0]
	for _, d := range m.devices {
		if !(d.UserID == userID && d.DeviceID == deviceID) {
			kept = append(kept, d)
		}
	}
	m.devices = kept
	return nil
}

func (m *memStore) Devices(userID uuid.UUID) ([]models.DeviceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DeviceSession
	for _, d := range m.devices {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memStore) RevokeOtherDevices(userID uuid.UUID, keepDeviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.ledger {
		if e.UserID == userID && e.DeviceID != keepDeviceID {
			e.IsValid = false
		}
	}
	kept := m.devices[:0]
	for _, d := range m.devices {
		if d.UserID != userID || d.DeviceID == keepDeviceID {
			kept = append(kept, d)
		}
	}
	m.devices = kept
	return nil
}

func (m *memStore) RevokeDevice(userID uuid.UUID, deviceID string) error {
	m.mu.Lock()
	for _, e := range m.ledger {
		if e.UserID == userID && e.DeviceID == deviceID {
			e.IsValid = false
		}
	}
	m.mu.Unlock()
	return m.RemoveDevice(userID, deviceID)
}

func (m *memStore) DeviceOwner(deviceID string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.devices {
		if d.DeviceID == deviceID {
			return d.UserID, nil
		}
	}
	return uuid.Nil, ErrDeviceNotFound
}

func (m *memStore) InvalidateAllSessions(userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.ledger {
		if e.UserID == userID {
			e.IsValid = false
		}
	}
	kept := m.devices[:0]
	for _, d := range m.devices {
		if d.UserID != userID {
			kept = append(kept, d)
		}
	}
	m.devices = kept
	return nil
}

func newTestSessionService() (*SessionService, *memStore) {
	store := newMemStore()
	tokens := NewTokenService(&config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    10 * time.Minute,
	})
	return NewSessionService(store, tokens), store
}

func TestLogin(t *testing.T) {
	svc, store := newTestSessionService()
	store.addUser("alice", "alice@example.com", "secret99", true)
	store.addUser("bob", "bob@example.com", "secret99", false)

	tests := []struct {
		name         string
		loginOrEmail string
		password     string
		wantErr      error
	}{
		{"by login", "alice", "secret99", nil},
		{"by email", "alice@example.com", "secret99", nil},
		{"unknown user", "nobody", "secret99", ErrInvalidLoginOrEmail},
		{"wrong password", "alice", "wrong", ErrInvalidPassword},
		{"unconfirmed email", "bob", "secret99", ErrEmailNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Login(tt.loginOrEmail, tt.password, "127.0.0.1", "test-agent")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (pair.AccessToken == "" || pair.RefreshToken == "") {
				t.Error("Login returned an empty token pair")
			}
		})
	}
}

func TestLoginMintsFreshDeviceEachTime(t *testing.T) {
	svc, store := newTestSessionService()
	user := store.addUser("alice", "alice@example.com", "secret99", true)

	for i := 0; i < 3; i++ {
		if _, err := svc.Login("alice", "secret99", "127.0.0.1", "agent"); err != nil {
			t.Fatalf("Login #%d: %v", i+1, err)
		}
	}

	devices, _ := store.Devices(user.ID)
	if len(devices) != 3 {
		t.Fatalf("got %d device sessions after 3 logins, want 3", len(devices))
	}
	seen := map[string]bool{}
	for _, d := range devices {
		if seen[d.DeviceID] {
			t.Errorf("deviceId %q reused across logins", d.DeviceID)
		}
		seen[d.DeviceID] = true
	}
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	svc, store := newTestSessionService()
	store.addUser("alice", "alice@example.com", "secret99", true)

	pair, err := svc.Login("alice", "secret99", "127.0.0.1", "agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("Refresh returned the same refresh token")
	}

	// The consumed token is one-time use.
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("replayed refresh error = %v, want ErrInvalidRefreshToken", err)
	}

	// The successor works.
	if _, err := svc.Refresh(next.RefreshToken); err != nil {
		t.Errorf("successor refresh failed: %v", err)
	}
}

func TestRefreshRejectsGarbageAndEmpty(t *testing.T) {
	svc, _ := newTestSessionService()

	for _, token := range []string{"", "not-a-jwt"} {
		if _, err := svc.Refresh(token); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("Refresh(%q) error = %v, want ErrInvalidRefreshToken", token, err)
		}
	}
}

func TestLogout(t *testing.T) {
	svc, store := newTestSessionService()
	user := store.addUser("alice", "alice@example.com", "secret99", true)

	pair, err := svc.Login("alice", "secret99", "127.0.0.1", "agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	devices, _ := store.Devices(user.ID)
	if len(devices) != 0 {
		t.Errorf("got %d devices after logout, want 0", len(devices))
	}

	// Double logout is rejected, and the dead token cannot refresh either.
	if err := svc.Logout(pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("second Logout error = %v, want ErrInvalidRefreshToken", err)
	}
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("Refresh after logout error = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestListDevicesSurvivesRotation(t *testing.T) {
	svc, store := newTestSessionService()
	store.addUser("alice", "alice@example.com", "secret99", true)

	first, _ := svc.Login("alice", "secret99", "10.0.0.1", "laptop")
	_, _ = svc.Login("alice", "secret99", "10.0.0.2", "phone")

	// Rotation must not shrink the device list.
	rotated, err := svc.Refresh(first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	devices, err := svc.ListDevices(rotated.RefreshToken)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("got %d devices, want 2", len(devices))
	}
}

func TestRevokeOtherDevices(t *testing.T) {
	svc, store := newTestSessionService()
	store.addUser("alice", "alice@example.com", "secret99", true)

	keeper, _ := svc.Login("alice", "secret99", "10.0.0.1", "laptop")
	other, _ := svc.Login("alice", "secret99", "10.0.0.2", "phone")

	if err := svc.RevokeOtherDevices(keeper.RefreshToken); err != nil {
		t.Fatalf("RevokeOtherDevices: %v", err)
	}

	devices, err := svc.ListDevices(keeper.RefreshToken)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}

	// The revoked session's token is dead while the keeper still rotates.
	if _, err := svc.Refresh(other.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("revoked session refresh error = %v, want ErrInvalidRefreshToken", err)
	}
	if _, err := svc.Refresh(keeper.RefreshToken); err != nil {
		t.Errorf("keeper refresh failed: %v", err)
	}
}

func TestRevokeDevice(t *testing.T) {
	svc, store := newTestSessionService()
	store.addUser("alice", "alice@example.com", "secret99", true)
	store.addUser("mallory", "mallory@example.com", "secret99", true)

	alice, _ := svc.Login("alice", "secret99", "10.0.0.1", "laptop")
	mallory, _ := svc.Login("mallory", "secret99", "10.0.0.3", "tablet")

	malloryDevices, err := svc.ListDevices(mallory.RefreshToken)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	foreignID := malloryDevices[0].DeviceID

	// A device owned by someone else is forbidden, not hidden.
	if err := svc.RevokeDevice(alice.RefreshToken, foreignID); !errors.Is(err, ErrDeviceForbidden) {
		t.Errorf("foreign RevokeDevice error = %v, want ErrDeviceForbidden", err)
	}

	// A device that exists nowhere is not found.
	if err := svc.RevokeDevice(alice.RefreshToken, uuid.NewString()); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("missing RevokeDevice error = %v, want ErrDeviceNotFound", err)
	}

	// Revoking your own works and kills the session's token.
	aliceDevices, _ := svc.ListDevices(alice.RefreshToken)
	ownID := aliceDevices[0].DeviceID
	if err := svc.RevokeDevice(alice.RefreshToken, ownID); err != nil {
		t.Fatalf("own RevokeDevice: %v", err)
	}
	if _, err := svc.Refresh(alice.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("refresh after own revoke error = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestInvalidateAllSessionsKillsEveryToken(t *testing.T) {
	svc, store := newTestSessionService()
	user := store.addUser("alice", "alice@example.com", "secret99", true)

	first, _ := svc.Login("alice", "secret99", "10.0.0.1", "laptop")
	second, _ := svc.Login("alice", "secret99", "10.0.0.2", "phone")

	if err := store.InvalidateAllSessions(user.ID); err != nil {
		t.Fatalf("InvalidateAllSessions: %v", err)
	}

	for i, pair := range []SessionTokens{first, second} {
		if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("session %d refresh error = %v, want ErrInvalidRefreshToken", i+1, err)
		}
	}
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	svc, store := newTestSessionService()
	store.addUser("alice", "alice@example.com", "secret99", true)

	pair, err := svc.Login("alice", "secret99", "127.0.0.1", "agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Refresh(pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrInvalidRefreshToken):
		default:
			t.Errorf("unexpected racer error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("%d concurrent refreshes succeeded, want exactly 1", wins)
	}
}
