package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleCertsURL serves Google's current signing keys as a JWK set.
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

// Identity is the result of a verified sign-in.
type Identity struct {
	Email   string
	Name    string
	Subject string
	// Payload carries the raw token claims, echoed back to the client the
	// way the previous verification endpoint did.
	Payload map[string]any
}

// Verifier checks an identity assertion and gates it against the single
// allowed owner email.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// GoogleVerifier validates Google-issued ID tokens: RS256 signature
// against Google's published keys, issuer, audience (the OAuth client ID),
// expiry, and finally the email claim against the allowed address.
type GoogleVerifier struct {
	clientID     string
	allowedEmail string
	certsURL     string
	client       *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewGoogleVerifier(clientID, allowedEmail string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:     clientID,
		allowedEmail: strings.ToLower(strings.TrimSpace(allowedEmail)),
		certsURL:     GoogleCertsURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// NewGoogleVerifierWithCerts overrides the key endpoint, for tests.
func NewGoogleVerifierWithCerts(clientID, allowedEmail, certsURL string) *GoogleVerifier {
	v := NewGoogleVerifier(clientID, allowedEmail)
	v.certsURL = certsURL
	return v
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return Identity{}, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid header")
		}
		return v.keyForKID(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}

	issuer, _ := claims["iss"].(string)
	if issuer != "accounts.google.com" && issuer != "https://accounts.google.com" {
		return Identity{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Identity{}, ErrInvalidToken
	}
	if email != v.allowedEmail {
		return Identity{}, ErrUnauthorizedEmail
	}

	name, _ := claims["name"].(string)
	sub, _ := claims["sub"].(string)
	return Identity{Email: email, Name: name, Subject: sub, Payload: claims}, nil
}

// keyForKID returns the cached RSA key for a key ID, refetching the JWK
// set when the kid is unknown or the cache is stale. Google rotates keys,
// so an unknown kid forces a refresh before failing.
func (v *GoogleVerifier) keyForKID(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := v.keys[kid]; ok && time.Since(v.fetchedAt) < time.Hour {
		return key, nil
	}

	keys, err := v.fetchKeys(ctx)
	if err != nil {
		// A stale cached key beats failing outright.
		if key, ok := v.keys[kid]; ok {
			return key, nil
		}
		return nil, err
	}
	v.keys = keys
	v.fetchedAt = time.Now()

	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no key for kid %q", kid)
	}
	return key, nil
}

func (v *GoogleVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build certs request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch signing keys: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch signing keys: status %d", resp.StatusCode)
	}

	var body struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(body.Keys))
	for _, k := range body.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		n, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		e, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("no usable signing keys")
	}
	return keys, nil
}

// DemoVerifier is the offline fallback: a plain case-insensitive email
// match with no cryptographic verification. It must only be constructed
// when no Google client ID is configured; callers enforce that.
type DemoVerifier struct {
	allowedEmail string
}

func NewDemoVerifier(allowedEmail string) *DemoVerifier {
	return &DemoVerifier{allowedEmail: strings.ToLower(strings.TrimSpace(allowedEmail))}
}

func (v *DemoVerifier) Verify(_ context.Context, email string) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Identity{}, ErrMissingToken
	}
	if email != v.allowedEmail {
		return Identity{}, ErrUnauthorizedEmail
	}
	return Identity{Email: email, Payload: map[string]any{"email": email, "demo": true}}, nil
}
