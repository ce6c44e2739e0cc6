// cmd/scholarstream/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarstream/internal/account"
	"scholarstream/internal/api"
	"scholarstream/internal/checkout"
	"scholarstream/internal/common/config"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/observability"
	"scholarstream/internal/identity"
	"scholarstream/internal/payment"
	"scholarstream/internal/reviews"
	"scholarstream/internal/role"
	"scholarstream/internal/routes"
	"scholarstream/internal/session"
)

const tokenTTL = 7 * 24 * time.Hour

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scholarstream client...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis-backed token store with retry ---
	var store *session.RedisStore
	err = retryWithBackoff(func() error {
		store = session.NewRedisStore(cfg.Cache.Redis, tokenTTL)
		return store.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer store.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init identity provider and session ---
	provider := identity.NewProvider(
		cfg.Identity.BaseURL,
		cfg.Identity.APIKey,
		time.Duration(cfg.Identity.Timeout)*time.Millisecond,
	)

	backendTimeout := time.Duration(cfg.Backend.Timeout) * time.Millisecond
	publicClient := api.NewPublicClient(cfg.Backend.BaseURL, backendTimeout, log)
	tokenAPI := api.NewTokenAPI(publicClient)

	sess := session.NewManager(provider, tokenAPI, store, log)

	// A rejected bearer token forces a sign-out and remembers where the
	// user was, so the sign-in page can send them back.
	router := routes.NewRouter()
	secureClient := api.NewSecureClient(cfg.Backend.BaseURL, backendTimeout, sess.BearerToken,
		func(originPath string) {
			log.Warn("bearer token rejected, signing out", map[string]interface{}{
				"origin": originPath,
			})
			sess.SignOut(ctx)
			router.RememberOrigin(originPath)
		}, log)

	sess.Start(ctx)

	// --- API surfaces ---
	scholarshipsAPI := api.NewScholarshipsAPI(publicClient, secureClient)
	applicationsAPI := api.NewApplicationsAPI(secureClient)
	reviewsAPI := api.NewReviewsAPI(publicClient, secureClient)
	usersAPI := api.NewUsersAPI(publicClient, secureClient)
	paymentsAPI := api.NewPaymentsAPI(secureClient)

	// --- Role resolution ---
	resolver := role.NewResolver(usersAPI, log)

	// --- Checkout ---
	processor := payment.NewClient(
		cfg.Payment.BaseURL,
		cfg.Payment.PublishableKey,
		time.Duration(cfg.Payment.Timeout)*time.Millisecond,
	)

	app := &application{
		session:      sess,
		router:       router,
		resolver:     resolver,
		scholarships: scholarshipsAPI,
		applications: applicationsAPI,
		payments:     paymentsAPI,
		analytics:    api.NewAnalyticsAPI(secureClient),
		wishlist:     api.NewWishlistAPI(secureClient),
		checkout:     checkout.NewSequencer(scholarshipsAPI, paymentsAPI, processor, applicationsAPI, paymentsAPI, obs, log),
		reviews:      reviews.NewService(reviewsAPI, applicationsAPI, log),
		account:      account.NewService(usersAPI, resolver, log),
		obs:          obs,
		logger:       log,
	}

	unsubscribe := app.run(ctx)
	defer unsubscribe()

	zapLog.Info("All services initialized")

	// --- Metrics / pprof endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
}
