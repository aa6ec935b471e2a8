package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"quotegen/internal/config"
	"quotegen/internal/email/noop"
	"quotegen/internal/email/ses"
	"quotegen/internal/handler"
	"quotegen/internal/metrics"
	"quotegen/internal/ocr"
	"quotegen/internal/port"
	"quotegen/internal/quote"
	"quotegen/internal/rates"
	"quotegen/internal/render/pdf"
	"quotegen/internal/repository/memory"
	"quotegen/internal/router"
	"quotegen/internal/service"
	s3storage "quotegen/internal/storage/s3"
	"quotegen/internal/validator"
)

const shutdownTimeout = 30 * time.Second

// @title quotegen API
// @version 1.0
// @description Screenshot-to-quote wizard for employer-of-record cost quotes.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("main: ignoring .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	// Initialize adapters
	rateProvider, err := rates.NewProvider(rates.Config{
		URL:             cfg.Rates.URL,
		Timeout:         cfg.Rates.Timeout,
		BreakerFailures: cfg.Rates.BreakerFailures,
		BreakerCooldown: cfg.Rates.BreakerCooldown,
	}, m)
	if err != nil {
		return fmt.Errorf("failed to initialize rate provider: %w", err)
	}

	extractor, err := ocr.New(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize text extractor: %w", err)
	}

	storage, err := newStorage(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	mailer, err := newMailer(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Initialize session store
	sessionRepo := memory.NewSessionRepo(cfg.Session.TTL, cfg.Session.MaxSessions)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessionRepo.RunJanitor(ctx, time.Minute)

	// Initialize services
	quoteSvc := service.NewQuoteService(
		quote.NewCalculator(quote.DefaultDirectory()),
		rateProvider,
		validator.NewEngine(validator.DefaultRegistry()),
		m,
		cfg.Quote.DefaultEORFeeUSD,
	)
	sessionSvc := service.NewSessionService(sessionRepo, quoteSvc, extractor, m, service.SessionConfig{
		MaxImageBytes:      cfg.OCR.MaxImageBytes(),
		RecognitionTimeout: cfg.OCR.Timeout,
		Concurrency:        cfg.OCR.Concurrency,
	})
	deliverySvc := service.NewDeliveryService(sessionRepo, pdf.NewRenderer(cfg.Render.ValidDays), storage, mailer, m,
		service.DeliveryConfig{Bucket: cfg.Storage.Bucket, LinkTTL: time.Duration(cfg.Storage.PresignExpiry) * time.Second})

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessionSvc, deliverySvc, cfg.OCR.MaxImageBytes())
	quoteH := handler.NewQuoteHandler(quoteSvc)
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(m, cfg.CORS.AllowedOrigins, sessionH, quoteH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (environment=%s, ocr=%s)", cfg.Server.Port, cfg.Server.Environment, cfg.OCR.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	healthH.SetDraining()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	sessionSvc.Wait()
	log.Printf("Server stopped")
	return nil
}

func newStorage(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	switch cfg.Provider {
	case "s3":
		return s3storage.NewS3Client(cfg)
	case "", "none":
		log.Printf("main: quote publishing disabled (storage.provider=%q)", cfg.Provider)
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

func newMailer(cfg *config.EmailConfig) (port.QuoteMailer, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	case "", "noop":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
