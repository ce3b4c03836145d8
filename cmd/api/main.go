package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nulln0ne/amm-estimator/internal/config"
	"github.com/nulln0ne/amm-estimator/internal/eth"
	"github.com/nulln0ne/amm-estimator/internal/handler"
	"github.com/nulln0ne/amm-estimator/internal/logging"
	"github.com/nulln0ne/amm-estimator/internal/metrics"
	"github.com/nulln0ne/amm-estimator/internal/service"
	"github.com/nulln0ne/amm-estimator/pkg/amm"
	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

const shutdownTimeout = 3 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	app := fiber.New()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ethereumClient *ethclient.Client
	if cfg.RPCEndpoint != "" {
		ethereumClient, err = eth.Dial(ctx, cfg.RPCEndpoint)
		if err != nil {
			return fmt.Errorf("failed to connect to Ethereum node: %w", err)
		}
		defer ethereumClient.Close()
	} else {
		logger.Info("ETH_RPC_URL not set, on-chain estimates disabled")
	}

	if err := registerRoutes(app, logger, prometheus.NewRegistry(), cfg, ethereumClient); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = app.Shutdown()
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}

// registerRoutes wires the pricing and metrics endpoints. /estimate answers
// 503 when ethereumClient is nil.
func registerRoutes(app *fiber.App, logger *slog.Logger, reg *prometheus.Registry, cfg *config.Config, ethereumClient *ethclient.Client) error {
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("register go collector: %w", err)
	}
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	quoteService := service.NewQuoteService(logger, m, cfg.MaxPoolTokens)
	quoteHandler := handler.NewQuoteHandler(logger, quoteService, handler.Defaults{
		Model:         amm.ModelStableSwap,
		FeeBps:        cfg.DefaultFeeBps,
		Amplification: u128.From64(cfg.DefaultAmplification),
	}, cfg.MaxPoolTokens)
	app.Get("/quote", quoteHandler.Quote())
	app.Get("/compare", quoteHandler.Compare())
	app.Get("/models", quoteHandler.Models())

	var estimateService *service.EstimateService
	if ethereumClient != nil {
		estimateService = service.NewEstimateService(logger, m, eth.NewPairReader(ethereumClient))
	}
	estimateHandler := handler.NewEstimateHandler(logger, estimateService, handler.Defaults{
		Model:         amm.ModelConstantProduct,
		FeeBps:        cfg.DefaultFeeBps,
		Amplification: u128.From64(cfg.DefaultAmplification),
	})
	app.Get("/estimate", estimateHandler.Handle())
	return nil
}
