package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pronoy1004/uniblox-assignment/internal/catalog"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/analytics"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/cart"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/coupon"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/order"
	"github.com/pronoy1004/uniblox-assignment/internal/handler"
	"github.com/pronoy1004/uniblox-assignment/internal/storage/memory"
	"github.com/pronoy1004/uniblox-assignment/pkg/health"
	"github.com/pronoy1004/uniblox-assignment/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.Int("discount_every_nth_order", cfg.DiscountEveryNthOrder),
	)

	// Product catalog: file-backed when configured, built-in sample otherwise.
	products := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return errors.Wrap(err, "load catalog")
		}
		products = loaded
		lg.Info("Catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("products", len(products)))
	}

	// Stores and domain services. Everything lives in process memory; a
	// restart starts the store from scratch.
	productRepo := memory.NewProductRepository(products)
	orderRepo := memory.NewOrderRepository()
	cartSvc := cart.NewService(productRepo)
	couponRegistry := coupon.NewRegistry(cfg.DiscountEveryNthOrder)
	agg := analytics.NewAggregator()
	checkoutSvc := order.NewService(cartSvc, couponRegistry, orderRepo, agg)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// HTTP surface.
	h := handler.NewHandler(productRepo, cartSvc, checkoutSvc, couponRegistry, orderRepo, agg)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", h.Routes()))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("shop-api", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Drain: fail readiness first so load balancers stop routing to us,
		// then shut the listener down.
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})

	return g.Wait()
}
