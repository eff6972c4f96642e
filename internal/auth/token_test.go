package auth

import (
	"testing"
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	profile := &domain.Profile{ID: "profile-1", Role: domain.RoleAdministrator}

	token, expiresAt, err := tm.GenerateToken(profile)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 29*time.Minute || remaining > 31*time.Minute {
		t.Fatalf("expiry %v not ~30m out", expiresAt)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.ProfileID != "profile-1" || claims.Role != domain.RoleAdministrator {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("token must carry a jti for revocation")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 30).GenerateToken(&domain.Profile{ID: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("secret-b", 30).ParseToken(token); err == nil {
		t.Fatal("token signed with different secret must not parse")
	}
}

func TestEachTokenGetsDistinctID(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	profile := &domain.Profile{ID: "p"}

	first, _, _ := tm.GenerateToken(profile)
	second, _, _ := tm.GenerateToken(profile)
	a, err := tm.ParseToken(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tm.ParseToken(second)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatal("jti must differ per token")
	}
}
