package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"portfolio/api/internal/app"
	"portfolio/api/internal/auth"
	"portfolio/api/internal/blob"
	"portfolio/api/internal/cache"
	"portfolio/api/internal/config"
	"portfolio/api/internal/email"
	"portfolio/api/internal/site"
	"portfolio/api/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	// The remote store is optional: the site keeps serving from the cache
	// and defaults when the database is unreachable at startup.
	var remoteStore app.RemoteStore
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("WARNING: database unavailable, serving cache/defaults only: %v", err)
	} else {
		defer db.Close()
		if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		remoteStore = store.NewPostgresStore(db)
	}

	var localCache cache.Cache
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		localCache = redisCache
		log.Printf("using Redis cache")
	} else {
		localCache = cache.NewMemoryCache()
		log.Printf("using in-memory cache")
	}
	defer localCache.Close()

	var images app.ImageStore
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		blobStore, err := blob.New(blob.Config{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.MinioPublicURL,
		})
		if err != nil {
			log.Printf("WARNING: object storage unavailable, images stay inline: %v", err)
		} else if err := blobStore.EnsureBucket(ctx); err != nil {
			log.Printf("WARNING: object storage bucket check failed, images stay inline: %v", err)
		} else {
			images = blobStore
		}
	}

	var verifier auth.Verifier
	if strings.TrimSpace(cfg.GoogleClientID) != "" {
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID, cfg.AllowedEmail)
	} else {
		log.Printf("WARNING: no Google client ID configured, using demo sign-in")
		verifier = auth.NewDemoVerifier(cfg.AllowedEmail)
	}

	var mailer app.Mailer
	emailService := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
	if emailService.IsConfigured() {
		mailer = emailService
	}

	service := app.New(cfg, remoteStore, localCache, images, verifier, mailer)
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: bootstrap error (will retry on next restart): %v", err)
	}

	httpServer := app.NewHTTPServer(service, site.New(), cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No write timeout: the events stream is a long-lived response.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("portfolio API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
