package services

import (
	"testing"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
)

func testTokenService() *TokenService {
	return NewTokenService(&config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    10 * time.Minute,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testTokenService()

	token, err := svc.IssueAccess("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.UserLogin != "alice" {
		t.Errorf("UserLogin = %q, want %q", claims.UserLogin, "alice")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := testTokenService()

	issued, err := svc.IssueRefresh("user-123", "alice", "device-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatal("IssueRefresh returned empty TokenID")
	}

	claims, err := svc.VerifyRefresh(issued.Token)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if claims.TokenID != issued.TokenID {
		t.Errorf("TokenID = %q, want %q", claims.TokenID, issued.TokenID)
	}
	if claims.DeviceID != "device-1" {
		t.Errorf("DeviceID = %q, want %q", claims.DeviceID, "device-1")
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	svc := testTokenService()

	a, err := svc.IssueRefresh("u", "l", "d")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	b, err := svc.IssueRefresh("u", "l", "d")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if a.TokenID == b.TokenID {
		t.Errorf("two issued tokens share TokenID %q", a.TokenID)
	}
}

func TestTokenKindsDoNotCrossVerify(t *testing.T) {
	svc := testTokenService()

	access, err := svc.IssueAccess("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := svc.IssueRefresh("user-123", "alice", "device-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := svc.VerifyRefresh(access); err == nil {
		t.Error("access token verified as refresh token")
	}
	if _, err := svc.VerifyAccess(refresh.Token); err == nil {
		t.Error("refresh token verified as access token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := testTokenService()
	other := NewTokenService(&config.Config{
		AccessTokenSecret:  "some-other-secret",
		RefreshTokenSecret: "another-other-secret",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    10 * time.Minute,
	})

	token, err := svc.IssueAccess("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := other.VerifyAccess(token); err == nil {
		t.Error("token signed with a different secret verified")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService(&config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     -time.Minute,
		RefreshTokenTTL:    -time.Minute,
	})

	access, err := svc.IssueAccess("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := svc.VerifyAccess(access); err == nil {
		t.Error("expired access token verified")
	}

	refresh, err := svc.IssueRefresh("user-123", "alice", "device-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := svc.VerifyRefresh(refresh.Token); err == nil {
		t.Error("expired refresh token verified")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := testTokenService()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyAccess(token); err == nil {
			t.Errorf("VerifyAccess(%q) succeeded", token)
		}
		if _, err := svc.VerifyRefresh(token); err == nil {
			t.Errorf("VerifyRefresh(%q) succeeded", token)
		}
	}
}
