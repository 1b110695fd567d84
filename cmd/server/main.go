package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/NTBooks/solquiz/internal/config"
	"github.com/NTBooks/solquiz/internal/handler"
	"github.com/NTBooks/solquiz/internal/logger"
	"github.com/NTBooks/solquiz/internal/router"
	"github.com/NTBooks/solquiz/internal/service"
	"github.com/NTBooks/solquiz/internal/validator"
	"github.com/NTBooks/solquiz/internal/webhook"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("network", cfg.HookNetwork).
		Str("collection", cfg.HookCollection).
		Msg("Starting solquiz")

	if cfg.HookAPIKey == "" || cfg.HookAPISecret == "" {
		log.Warn().Msg("HOOK_API_KEY/HOOK_API_SECRET not set — certificate uploads will fail")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Initialize Services ──────────────────────────────────────────
	hookClient := webhook.NewClient(cfg, log)
	quizService := service.NewQuizService(cfg.QuizPath, log)
	templateService := service.NewTemplateService(cfg, log)
	renderService := service.NewRenderService(cfg.RenderTimeout, log)
	certService := service.NewCertificateService(cfg, templateService, renderService, hookClient, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:   handler.NewQuizHandler(quizService, certService),
		Status: handler.NewStatusHandler(cfg, hookClient),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
