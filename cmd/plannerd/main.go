// Package main is the entry point for plannerd, the classical planner's
// HTTP service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iamthegreatdestroyer/classical-planner/internal/auth"
	"github.com/iamthegreatdestroyer/classical-planner/internal/config"
	"github.com/iamthegreatdestroyer/classical-planner/internal/obslog"
	"github.com/iamthegreatdestroyer/classical-planner/internal/server"
)

// corsMiddleware adds CORS headers for cross-origin requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Plan-Signature-256")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	log := obslog.New(cfg)

	handler := server.NewHandler(&cfg.Planning, log)

	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	signatureMiddleware := auth.NewSignatureMiddleware(cfg.Auth.PlanSignatureSecret, log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", handler.Health)
	r.With(signatureMiddleware.VerifySignature, authMiddleware.Authenticate).Post("/plans", handler.Plans)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("plannerd is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not gracefully shut down plannerd")
		}
		close(done)
	}()

	log.Info().Str("addr", addr).Msg("plannerd is starting")
	if cfg.Auth.PlanSignatureSecret != "" {
		log.Info().Msg("plan signature verification enabled")
	}
	if cfg.Auth.SigningSecret != "" {
		log.Info().Msg("bearer-token authentication enabled")
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("could not listen")
	}

	<-done
	log.Info().Msg("plannerd stopped")
}

