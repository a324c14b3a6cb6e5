// Package app wires the portfolio data sources together: the merge of
// default, cached and remote data, the editor save pipeline, the auth gate
// and the HTTP surface.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio/api/internal/auth"
	"portfolio/api/internal/blob"
	"portfolio/api/internal/cache"
	"portfolio/api/internal/config"
	"portfolio/api/internal/portfolio"
	"portfolio/api/internal/store"
	"portfolio/api/internal/util"
)

// RemoteStore is the slice of the Postgres adapter the service needs. Nil
// means the remote store is not configured; the site keeps serving from the
// cache and defaults.
type RemoteStore interface {
	ReadOnce(ctx context.Context) store.Snapshot
	WriteAll(ctx context.Context, doc portfolio.Document) (int64, error)
	MigrateLegacy(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
}

// ImageStore uploads inline images and hands back a URL. Nil when object
// storage is not configured.
type ImageStore interface {
	UploadDataURI(ctx context.Context, dataURI string) (string, error)
}

// Mailer relays contact-form messages. Nil when SMTP is not configured.
type Mailer interface {
	IsConfigured() bool
	SendContactMessage(to, visitorName, visitorEmail, message string) error
}

// Session is the identity attached to editor requests after sign-in.
type Session struct {
	Email string
	Name  string
}

// AuthResult is the response of the token verification endpoint: the
// verified identity plus a session token for subsequent editor calls.
type AuthResult struct {
	Email   string
	Payload map[string]any
	Token   string
}

// SaveResult reports what a save actually did. Warnings surface degraded
// outcomes (remote store down, image kept cache-only) without failing the
// save, since the cache copy is the primary UI source.
type SaveResult struct {
	Document   portfolio.Document
	LastUpdate int64
	Warnings   []string
}

type Service struct {
	cfg      config.Config
	store    RemoteStore
	cache    cache.Cache
	images   ImageStore
	verifier auth.Verifier
	mailer   Mailer
}

func New(cfg config.Config, remote RemoteStore, localCache cache.Cache, images ImageStore, verifier auth.Verifier, mailer Mailer) *Service {
	return &Service{
		cfg:      cfg,
		store:    remote,
		cache:    localCache,
		images:   images,
		verifier: verifier,
		mailer:   mailer,
	}
}

// Bootstrap runs one-time startup work: moving a legacy single-document
// remote layout into the collections layout. Errors are surfaced but the
// caller treats them as non-fatal; the migration retries on next start.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	migrated, err := s.store.MigrateLegacy(ctx)
	if err != nil {
		return err
	}
	if migrated {
		log.Printf("migrated legacy portfolio document into collections")
	}
	return nil
}

// Ping checks the backends readiness probes care about.
func (s *Service) Ping(ctx context.Context) (dbErr, cacheErr error) {
	if s.store != nil {
		dbErr = s.store.Ping(ctx)
	}
	cacheErr = s.cache.Ping(ctx)
	return dbErr, cacheErr
}

// Portfolio is the single read path: remote snapshot merged over the cached
// document over the defaults, with the merged result written back to the
// cache so the next read is warm even if the remote store goes away.
func (s *Service) Portfolio(ctx context.Context) portfolio.Document {
	local := s.cache.Load(ctx)

	var remote *portfolio.Remote
	if s.store != nil {
		snap := s.store.ReadOnce(ctx)
		for section, err := range snap.Errors {
			log.Printf("WARNING: remote read failed for %s: %v", section, err)
		}
		if !snap.Failed() {
			remote = &snap.Remote
		}
	}

	merged := portfolio.Merge(portfolio.Default(), local, remote, s.mergePolicy())
	if err := s.cache.Save(ctx, merged); err != nil {
		log.Printf("WARNING: cache write-back failed: %v", err)
	}
	return merged
}

func (s *Service) mergePolicy() portfolio.MergePolicy {
	return portfolio.MergePolicy{EmptyListWins: s.cfg.EmptyListWins}
}

// Save is the editor pipeline: gate the identity, run the image through
// upload/shrink/threshold, persist to the cache first (the immediate UI
// source), then best-effort to the remote store. A remote failure degrades
// to a warning; the cache copy is never rolled back.
func (s *Service) Save(ctx context.Context, session Session, doc portfolio.Document) (SaveResult, error) {
	if !strings.EqualFold(strings.TrimSpace(session.Email), s.cfg.AllowedEmail) {
		return SaveResult{}, auth.ErrUnauthorizedEmail
	}

	doc = portfolio.Normalize(doc)
	doc.LastUpdate = time.Now().UnixMilli()

	remoteDoc, warnings := s.processProfileImage(ctx, doc)

	if err := s.cache.Save(ctx, doc); err != nil {
		log.Printf("WARNING: cache save failed: %v", err)
		warnings = append(warnings, "local cache save failed; changes may not survive a restart")
	}

	result := SaveResult{Document: doc, LastUpdate: doc.LastUpdate, Warnings: warnings}
	if s.store == nil {
		result.Warnings = append(result.Warnings, "remote store not configured; changes are cache-only")
		return result, nil
	}

	lastUpdate, err := s.store.WriteAll(ctx, remoteDoc)
	if err != nil {
		log.Printf("WARNING: remote save failed: %v", err)
		result.Warnings = append(result.Warnings, "remote save failed; changes kept locally and will persist on the next successful save")
		return result, nil
	}
	result.LastUpdate = lastUpdate
	return result, nil
}

// processProfileImage returns the document shape destined for the remote
// store. An inline image is uploaded to object storage when available,
// otherwise shrunk in place; if the inline payload still exceeds the size
// threshold the remote copy is blanked while the cache keeps it.
func (s *Service) processProfileImage(ctx context.Context, doc portfolio.Document) (portfolio.Document, []string) {
	var warnings []string
	image := doc.Profile.Image
	if !blob.IsDataURI(image) {
		return doc, nil
	}

	if s.images != nil {
		url, err := s.images.UploadDataURI(ctx, image)
		if err == nil {
			doc.Profile.Image = url
			return doc, nil
		}
		log.Printf("WARNING: image upload failed, falling back to inline: %v", err)
	}

	if shrunk, err := blob.Shrink(image, s.cfg.ImageMaxWidth, s.cfg.ImageQuality); err == nil {
		doc.Profile.Image = shrunk
		image = shrunk
	} else {
		log.Printf("WARNING: image shrink failed: %v", err)
	}

	if len(image) > s.cfg.MaxImageBytes {
		remoteDoc := doc
		remoteDoc.Profile.Image = ""
		warnings = append(warnings, "profile image too large for remote storage; it was kept locally only")
		return remoteDoc, warnings
	}
	return doc, warnings
}

// VerifyGoogleToken runs the auth gate and, on success, issues the HMAC
// session token the editor sends on subsequent requests.
func (s *Service) VerifyGoogleToken(ctx context.Context, idToken string) (AuthResult, error) {
	if s.verifier == nil {
		return AuthResult{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Sign-in is not configured", nil)
	}
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := auth.IssueToken([]byte(s.cfg.SessionSecret), auth.Claims{
		Email: identity.Email,
		Name:  identity.Name,
		JTI:   util.NewID("ses"),
		Exp:   time.Now().Add(s.cfg.SessionTTL).Unix(),
	})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Email: identity.Email, Payload: identity.Payload, Token: token}, nil
}

// SessionFromToken parses a session token and re-checks the email gate, so
// a token issued before the allowed address changed stops working.
func (s *Service) SessionFromToken(token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.SessionSecret), token)
	if err != nil {
		return Session{}, err
	}
	if !strings.EqualFold(claims.Email, s.cfg.AllowedEmail) {
		return Session{}, auth.ErrUnauthorizedEmail
	}
	return Session{Email: claims.Email, Name: claims.Name}, nil
}

// Changes exposes the cache change feed for the SSE endpoint.
func (s *Service) Changes(ctx context.Context) (<-chan int64, func()) {
	return s.cache.Subscribe(ctx)
}

// LastUpdate reports the current change marker.
func (s *Service) LastUpdate(ctx context.Context) int64 {
	return s.cache.LastUpdate(ctx)
}

// SendContactMessage relays a visitor message to the owner.
func (s *Service) SendContactMessage(visitorName, visitorEmail, message string) error {
	if s.mailer == nil || !s.mailer.IsConfigured() {
		return domainError(http.StatusServiceUnavailable, "CONTACT_UNAVAILABLE", "Contact form is not configured", nil)
	}
	if strings.TrimSpace(visitorName) == "" || strings.TrimSpace(message) == "" {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name and message are required", nil)
	}
	if err := s.mailer.SendContactMessage(s.cfg.ContactTo, visitorName, visitorEmail, message); err != nil {
		log.Printf("WARNING: contact relay failed: %v", err)
		return errors.New("contact relay failed")
	}
	return nil
}
