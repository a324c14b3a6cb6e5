package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"portfolio/api/internal/auth"
	"portfolio/api/internal/portfolio"
)

// PageRenderer projects a merged document onto the public HTML page.
type PageRenderer interface {
	Render(w io.Writer, doc portfolio.Document) error
}

type HTTPServer struct {
	service    *Service
	renderer   PageRenderer
	corsOrigin string
}

func NewHTTPServer(service *Service, renderer PageRenderer, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, renderer: renderer, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
			"cache":    map[string]any{"status": "ok"},
		}
		dbErr, cacheErr := s.service.Ping(ctx)
		if dbErr != nil {
			// A dead remote store degrades reads but does not take the
			// site down, so it stays a reported check, not a 503.
			checks["database"] = map[string]any{"status": "error", "error": dbErr.Error()}
		}
		if cacheErr != nil {
			statusCode = http.StatusServiceUnavailable
			checks["cache"] = map[string]any{"status": "error", "error": cacheErr.Error()}
		}
		writeJSON(w, statusCode, map[string]any{"ok": statusCode == http.StatusOK, "checks": checks})
		return
	}

	if r.URL.Path == "/api/auth/google" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		s.handleAuthGoogle(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "email": nil})
			return
		}
		session, err := s.service.SessionFromToken(token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "email": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "email": session.Email, "name": session.Name})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		// Session tokens are stateless; logout is the client discarding its
		// copy. The endpoint exists so the editor has one call for it.
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.URL.Path == "/api/portfolio" {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			writeJSON(w, http.StatusOK, s.service.Portfolio(r.Context()))
			return
		}
		if r.Method == http.MethodPut {
			session, ok := s.requireSession(w, r)
			if !ok {
				return
			}
			s.handleSave(w, r, session)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/portfolio/events" {
		s.handleEvents(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/portfolio/export" {
		if _, ok := s.requireSession(w, r); !ok {
			return
		}
		doc := s.service.Portfolio(r.Context())
		w.Header().Set("Content-Disposition", `attachment; filename="portfolio.json"`)
		writeJSON(w, http.StatusOK, doc)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/portfolio/import" {
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		s.handleSave(w, r, session)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/contact" {
		var body struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Message string `json:"message"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SendContactMessage(body.Name, body.Email, body.Message); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/" {
		doc := s.service.Portfolio(r.Context())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := s.renderer.Render(w, doc); err != nil {
			log.Printf("WARNING: page render failed: %v", err)
		}
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleAuthGoogle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDToken       string `json:"idToken"`
		IDTokenSnake  string `json:"id_token"`
		CredentialAlt string `json:"credential"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	idToken := body.IDToken
	if idToken == "" {
		idToken = body.IDTokenSnake
	}
	if idToken == "" {
		idToken = body.CredentialAlt
	}
	if strings.TrimSpace(idToken) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TOKEN", "id token is required", nil)
		return
	}

	result, err := s.service.VerifyGoogleToken(r.Context(), idToken)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"email":   result.Email,
		"payload": result.Payload,
		"token":   result.Token,
	})
}

func (s *HTTPServer) handleSave(w http.ResponseWriter, r *http.Request, session Session) {
	var doc portfolio.Document
	if err := decodeBody(r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	result, err := s.service.Save(r.Context(), session, doc)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"data":       result.Document,
		"lastUpdate": result.LastUpdate,
		"warnings":   result.Warnings,
	})
}

// handleEvents streams change markers as server-sent events: one event on
// connect with the current marker, then one per observed save.
func (s *HTTPServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Streaming unsupported", nil)
		return
	}

	updates, cancel := s.service.Changes(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: update\ndata: %d\n\n", s.service.LastUpdate(r.Context()))
	flusher.Flush()

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case stamp, open := <-updates:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: update\ndata: %d\n\n", stamp)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorizedEmail) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return Session{}, false
		}
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrMissingToken) {
		return http.StatusBadRequest, "MISSING_TOKEN", "id token is required", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	if errors.Is(err, auth.ErrUnauthorizedEmail) {
		return http.StatusForbidden, "FORBIDDEN", "Forbidden", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
