package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

func testAuthService(t *testing.T, accessTTL time.Duration) *authService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: "test-secret",
		accessTTL:    accessTTL,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	as := testAuthService(t, time.Minute)
	user := &types.User{ID: uuid.New(), Role: "viewer"}

	token, err := as.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	got, err := as.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if got != user.ID {
		t.Errorf("subject = %s, want %s", got, user.ID)
	}
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	as := testAuthService(t, -time.Minute)
	user := &types.User{ID: uuid.New(), Role: "viewer"}

	token, err := as.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	if _, err := as.ValidateAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	as := testAuthService(t, time.Minute)
	user := &types.User{ID: uuid.New(), Role: "viewer"}

	token, err := as.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	other := testAuthService(t, time.Minute)
	other.jwtSecretKey = "different-secret"
	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}
