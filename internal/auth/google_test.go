package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testClientID = "client-id.apps.googleusercontent.com"
	testOwner    = "owner@example.com"
	testKID      = "test-key"
)

func newSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func jwksServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	payload := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKID,
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKID
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func ownerClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"aud":   testClientID,
		"sub":   "1234567890",
		"email": testOwner,
		"name":  "Owner",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestGoogleVerifierAcceptsOwner(t *testing.T) {
	key := newSigningKey(t)
	server := jwksServer(t, key)
	v := NewGoogleVerifierWithCerts(testClientID, testOwner, server.URL)

	identity, err := v.Verify(context.Background(), signIDToken(t, key, ownerClaims()))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Email != testOwner {
		t.Errorf("email = %q", identity.Email)
	}
	if identity.Payload["sub"] != "1234567890" {
		t.Errorf("payload missing claims: %+v", identity.Payload)
	}
}

func TestGoogleVerifierEmailCaseInsensitive(t *testing.T) {
	key := newSigningKey(t)
	server := jwksServer(t, key)
	v := NewGoogleVerifierWithCerts(testClientID, "OWNER@Example.COM", server.URL)

	claims := ownerClaims()
	claims["email"] = "Owner@example.com"
	if _, err := v.Verify(context.Background(), signIDToken(t, key, claims)); err != nil {
		t.Fatalf("email comparison must be case-insensitive: %v", err)
	}
}

func TestGoogleVerifierRejectsOtherEmail(t *testing.T) {
	key := newSigningKey(t)
	server := jwksServer(t, key)
	v := NewGoogleVerifierWithCerts(testClientID, testOwner, server.URL)

	claims := ownerClaims()
	claims["email"] = "intruder@example.com"
	_, err := v.Verify(context.Background(), signIDToken(t, key, claims))
	if !errors.Is(err, ErrUnauthorizedEmail) {
		t.Errorf("expected ErrUnauthorizedEmail, got %v", err)
	}
}

func TestGoogleVerifierRejectsWrongAudience(t *testing.T) {
	key := newSigningKey(t)
	server := jwksServer(t, key)
	v := NewGoogleVerifierWithCerts(testClientID, testOwner, server.URL)

	claims := ownerClaims()
	claims["aud"] = "someone-else"
	_, err := v.Verify(context.Background(), signIDToken(t, key, claims))
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGoogleVerifierRejectsExpired(t *testing.T) {
	key := newSigningKey(t)
	server := jwksServer(t, key)
	v := NewGoogleVerifierWithCerts(testClientID, testOwner, server.URL)

	claims := ownerClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err := v.Verify(context.Background(), signIDToken(t, key, claims))
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestGoogleVerifierRejectsBadIssuer(t *testing.T) {
	key := newSigningKey(t)
	server := jwksServer(t, key)
	v := NewGoogleVerifierWithCerts(testClientID, testOwner, server.URL)

	claims := ownerClaims()
	claims["iss"] = "https://evil.example.com"
	_, err := v.Verify(context.Background(), signIDToken(t, key, claims))
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGoogleVerifierMissingToken(t *testing.T) {
	v := NewGoogleVerifier(testClientID, testOwner)
	if _, err := v.Verify(context.Background(), "  "); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestDemoVerifier(t *testing.T) {
	v := NewDemoVerifier(testOwner)

	if _, err := v.Verify(context.Background(), "Owner@Example.com"); err != nil {
		t.Errorf("demo verifier must match case-insensitively: %v", err)
	}
	if _, err := v.Verify(context.Background(), "other@example.com"); !errors.Is(err, ErrUnauthorizedEmail) {
		t.Errorf("expected ErrUnauthorizedEmail, got %v", err)
	}
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}
