package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edulearn/internal/auth"
	"edulearn/internal/config"
	"edulearn/internal/database"
	"edulearn/internal/handler"
	"edulearn/internal/payment"
	"edulearn/internal/repository"
	"edulearn/internal/router"
	"edulearn/internal/service"
	"edulearn/internal/voucher"
	"edulearn/internal/worker"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const gatewayTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting edulearn API server")

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool, logger)
	courseRepo := repository.NewCourseRepository(pool, logger)
	voucherRepo := repository.NewVoucherRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	progressRepo := repository.NewProgressRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	blogRepo := repository.NewBlogRepository(pool, logger)

	// Vouchers
	validator := voucher.NewValidator(voucherRepo, logger)
	redeemer := voucher.NewRedeemer(voucherRepo, logger)
	importer := voucher.NewImporter(newVoucherLoader(ctx, cfg.S3, logger), voucherRepo, logger)

	if len(cfg.Vouchers.ImportFiles) > 0 {
		result, err := importer.Import(ctx, cfg.Vouchers.ImportFiles)
		if err != nil {
			return fmt.Errorf("failed to import voucher files: %w", err)
		}
		logger.Info().
			Int("files", result.Files).
			Int("inserted", result.Inserted).
			Int("duplicates", result.Duplicates).
			Int("invalid", result.Invalid).
			Msg("startup voucher import completed")
	}

	// Services
	progressService := service.NewProgressService(progressRepo, courseRepo, orderRepo, logger)
	orderService := service.NewOrderService(
		orderRepo, courseRepo, voucherRepo, cartRepo, validator, redeemer, progressService, logger,
	)
	paymentService := service.NewPaymentService(newPaymentRegistry(cfg, logger), orderRepo, orderService, logger)
	cartService := service.NewCartService(cartRepo, courseRepo, orderRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, courseRepo, logger)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Users:    handler.NewUserHandler(service.NewUserService(userRepo, logger), logger),
		Courses:  handler.NewCourseHandler(service.NewCourseService(courseRepo, logger), logger),
		Vouchers: handler.NewVoucherHandler(service.NewVoucherService(voucherRepo, courseRepo, validator, importer, logger), logger),
		Orders:   handler.NewOrderHandler(orderService, paymentService, logger),
		Payments: handler.NewPaymentHandler(paymentService, logger),
		Progress: handler.NewProgressHandler(progressService, logger),
		Cart:     handler.NewCourseListHandler("cart", cartService, logger),
		Wishlist: handler.NewCourseListHandler("wishlist", wishlistService, logger),
		Reviews:  handler.NewReviewHandler(service.NewReviewService(reviewRepo, courseRepo, orderRepo, logger), logger),
		Blogs:    handler.NewBlogHandler(service.NewBlogService(blogRepo, logger), logger),
	}

	mux := router.New(handlers, router.Options{
		Tokens:        auth.NewVerifier(cfg.Auth.JWTSecret),
		APIKey:        cfg.Auth.APIKey,
		CORSOrigins:   cfg.CORS.Origins,
		CallbackRPS:   cfg.RateLimit.RPS,
		CallbackBurst: cfg.RateLimit.Burst,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := worker.NewSweeper(orderService, cfg.Orders.PendingTTL, cfg.Orders.SweepInterval, nil, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// newVoucherLoader reads import files from S3 when enabled, falling back to
// the local file system.
func newVoucherLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) voucher.Loader {
	fileLoader := voucher.NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for voucher files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := voucher.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return voucher.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}

// newPaymentRegistry registers the enabled payment gateways.
func newPaymentRegistry(cfg *config.Config, logger zerolog.Logger) *payment.Registry {
	client := &http.Client{Timeout: gatewayTimeout}

	var providers []payment.Provider
	if cfg.MoMo.Enabled {
		providers = append(providers, payment.NewMoMo(cfg.MoMo, client, logger))
	}
	if cfg.ZaloPay.Enabled {
		providers = append(providers, payment.NewZaloPay(cfg.ZaloPay, client, time.Now, logger))
	}

	if len(providers) == 0 {
		logger.Warn().Msg("no payment provider enabled, checkout is unavailable")
	}

	return payment.NewRegistry(providers...)
}
