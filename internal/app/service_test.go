package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio/api/internal/auth"
	"portfolio/api/internal/cache"
	"portfolio/api/internal/config"
	"portfolio/api/internal/portfolio"
	"portfolio/api/internal/store"
)

const testOwner = "owner@example.com"

func testConfig() config.Config {
	return config.Config{
		AllowedEmail:  testOwner,
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		CORSOrigin:    "*",
		MaxImageBytes: 800 * 1024,
		ImageMaxWidth: 1024,
		ImageQuality:  70,
		ContactTo:     testOwner,
	}
}

type stubStore struct {
	mu       sync.Mutex
	snapshot store.Snapshot
	written  []portfolio.Document
	writeErr error
	pingErr  error
}

func (s *stubStore) ReadOnce(context.Context) store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *stubStore) WriteAll(_ context.Context, doc portfolio.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.written = append(s.written, doc)
	return time.Now().UnixMilli(), nil
}

func (s *stubStore) MigrateLegacy(context.Context) (bool, error) { return false, nil }

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) lastWritten(t *testing.T) portfolio.Document {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.written) == 0 {
		t.Fatal("no remote write happened")
	}
	return s.written[len(s.written)-1]
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *stubMailer) IsConfigured() bool { return true }

func (m *stubMailer) SendContactMessage(_, visitorName, _, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, visitorName+": "+message)
	return nil
}

func TestPortfolioMergesRemoteAndWritesBack(t *testing.T) {
	remote := &stubStore{}
	remote.snapshot.Remote.HasMeta = true
	remote.snapshot.Remote.Name = "Remote Name"
	remote.snapshot.Remote.Headline = "Remote Headline"

	localCache := cache.NewMemoryCache()
	svc := New(testConfig(), remote, localCache, nil, nil, nil)

	doc := svc.Portfolio(context.Background())
	if doc.Name != "Remote Name" {
		t.Errorf("remote scalar must win, got name %q", doc.Name)
	}
	if len(doc.Projects) == 0 {
		t.Error("default projects must survive a meta-only remote")
	}

	// The merged result is written back so a later remote outage still
	// serves this view.
	cached := localCache.Load(context.Background())
	if cached.Name != "Remote Name" {
		t.Errorf("cache write-back missing, cached name %q", cached.Name)
	}
}

func TestPortfolioFallsBackWhenRemoteDown(t *testing.T) {
	remote := &stubStore{}
	remote.snapshot.Errors = map[string]error{
		"meta": errors.New("down"), "projects": errors.New("down"),
		"internships": errors.New("down"), "skills": errors.New("down"),
		"achievements": errors.New("down"),
	}

	localCache := cache.NewMemoryCache()
	local := portfolio.Default()
	local.Name = "Cached Name"
	if err := localCache.Save(context.Background(), local); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	svc := New(testConfig(), remote, localCache, nil, nil, nil)
	doc := svc.Portfolio(context.Background())
	if doc.Name != "Cached Name" {
		t.Errorf("dead remote must fall back to the cache, got %q", doc.Name)
	}
}

func TestSaveRejectsWrongEmail(t *testing.T) {
	svc := New(testConfig(), &stubStore{}, cache.NewMemoryCache(), nil, nil, nil)

	_, err := svc.Save(context.Background(), Session{Email: "intruder@example.com"}, portfolio.Default())
	if !errors.Is(err, auth.ErrUnauthorizedEmail) {
		t.Errorf("expected ErrUnauthorizedEmail, got %v", err)
	}
}

func TestSaveRemoteFailureKeepsCache(t *testing.T) {
	remote := &stubStore{writeErr: errors.New("connection refused")}
	localCache := cache.NewMemoryCache()
	svc := New(testConfig(), remote, localCache, nil, nil, nil)

	doc := portfolio.Default()
	doc.Name = "Edited Name"
	result, err := svc.Save(context.Background(), Session{Email: testOwner}, doc)
	if err != nil {
		t.Fatalf("Save must not fail on a remote outage: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Error("remote failure must surface a warning")
	}
	if cached := localCache.Load(context.Background()); cached.Name != "Edited Name" {
		t.Errorf("cache copy lost, got %q", cached.Name)
	}
}

func TestSavePublishesChangeSignal(t *testing.T) {
	localCache := cache.NewMemoryCache()
	svc := New(testConfig(), nil, localCache, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, unsubscribe := svc.Changes(ctx)
	defer unsubscribe()

	if _, err := svc.Save(ctx, Session{Email: testOwner}, portfolio.Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case stamp := <-updates:
		if stamp <= 0 {
			t.Errorf("bogus change stamp %d", stamp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after save")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := New(testConfig(), nil, cache.NewMemoryCache(), nil, auth.NewDemoVerifier(testOwner), nil)

	result, err := svc.VerifyGoogleToken(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("VerifyGoogleToken: %v", err)
	}
	if result.Email != testOwner {
		t.Errorf("email = %q", result.Email)
	}

	session, err := svc.SessionFromToken(result.Token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if session.Email != testOwner {
		t.Errorf("session email = %q", session.Email)
	}
}

func TestVerifyGoogleTokenUnconfigured(t *testing.T) {
	svc := New(testConfig(), nil, cache.NewMemoryCache(), nil, nil, nil)

	_, err := svc.VerifyGoogleToken(context.Background(), "anything")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 503 {
		t.Errorf("expected 503 domain error, got %v", err)
	}
}

func TestSendContactMessage(t *testing.T) {
	mailer := &stubMailer{}
	svc := New(testConfig(), nil, cache.NewMemoryCache(), nil, nil, mailer)

	if err := svc.SendContactMessage("Visitor", "v@example.com", "Hello"); err != nil {
		t.Fatalf("SendContactMessage: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one relayed message, got %d", len(mailer.sent))
	}

	err := svc.SendContactMessage("", "", "")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 422 {
		t.Errorf("expected validation error, got %v", err)
	}
}
