package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/deecee-hair/storefront-api/internal/appointment"
	"github.com/deecee-hair/storefront-api/internal/auth"
	"github.com/deecee-hair/storefront-api/internal/cart"
	"github.com/deecee-hair/storefront-api/internal/catalog"
	"github.com/deecee-hair/storefront-api/internal/checkout"
	"github.com/deecee-hair/storefront-api/internal/common"
	"github.com/deecee-hair/storefront-api/internal/config"
	"github.com/deecee-hair/storefront-api/internal/currency"
	"github.com/deecee-hair/storefront-api/internal/db"
	"github.com/deecee-hair/storefront-api/internal/health"
	"github.com/deecee-hair/storefront-api/internal/obs"
	"github.com/deecee-hair/storefront-api/internal/order"
	"github.com/deecee-hair/storefront-api/internal/pricing"
	"github.com/deecee-hair/storefront-api/internal/promo"
	"github.com/deecee-hair/storefront-api/internal/ratelimit"
	"github.com/deecee-hair/storefront-api/internal/shop"
	"github.com/deecee-hair/storefront-api/internal/user"
	"github.com/deecee-hair/storefront-api/internal/wishlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(nil)
	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics("storefront", buckets, nil)
	}

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "storefront-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if envBool("DB_AUTO_MIGRATE", true) {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "storefront-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if tracingEnabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load catalog")
	}
	logger.Info().Int("products", cat.Len()).Msg("catalog loaded")

	currencies := currency.DefaultTable()
	if cfg.CurrencyTableJSON != "" {
		var override currency.Table
		if err := json.Unmarshal([]byte(cfg.CurrencyTableJSON), &override); err != nil {
			logger.Fatal().Err(err).Msg("parse currency table")
		}
		currencies = override
	}
	if err := currencies.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("validate currency table")
	}

	discount, err := pricing.NewDiscount(cfg.DiscountPercent)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure discount")
	}

	promos, err := promo.ParseEnv(cfg.PromoCodes, cfg.PromoDiscounts, cfg.PromoDescriptions)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse promo codes")
	}
	logger.Info().Int("codes", len(promos)).Msg("promo table loaded")

	quoteParams := pricing.QuoteParams{
		ShippingFee:           cfg.ShippingFlatFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxPercent:            cfg.TaxPercent,
	}

	shopHandler := shop.NewHandler(shop.HandlerConfig{
		Catalog:         cat,
		Currencies:      currencies,
		Discount:        discount,
		DefaultCurrency: cfg.CurrencyCode,
	})

	cartService := &cart.Service{
		Store:      cart.NewStore(redisClient, cfg.CartTTL),
		Catalog:    cat,
		Promos:     promos,
		Currencies: currencies,
		Quote:      quoteParams,
	}
	cartHandler := &cart.Handler{Svc: cartService, DefaultCurrency: cfg.CurrencyCode}

	authService, err := auth.NewService(auth.Config{
		Store:           &auth.PGStore{Pool: pool},
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{Service: authService}
	authMiddleware := auth.Middleware{Service: authService}

	orderRepo := &order.Repo{Pool: pool}
	orderHandler := &order.Handler{Repo: orderRepo}
	orderAdmin := &order.AdminHandler{Repo: orderRepo}

	checkoutHandler := &checkout.Handler{Svc: &checkout.Service{
		Pool:     pool,
		CartSvc:  cartService,
		Orders:   orderRepo,
		Currency: cfg.CurrencyCode,
	}}

	addressHandler := &user.AddressHandler{Repo: &user.AddressRepo{Pool: pool}}

	wishlistHandler := &wishlist.Handler{Svc: &wishlist.Service{Client: redisClient, Catalog: cat}}

	appointmentRepo := &appointment.Repo{Pool: pool}
	appointmentHandler := &appointment.Handler{Repo: appointmentRepo}
	appointmentAdmin := &appointment.AdminHandler{Repo: appointmentRepo}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	authLimit := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:auth:"},
		Config: ratelimit.Config{
			Key:    ratelimit.IPKey,
			Window: cfg.AuthRateLimitWindow,
			Max:    cfg.AuthRateLimitMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter")
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{Checker: health.Deps{Pool: pool, Redis: redisClient}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", shopHandler.Products)
		v.Get("/products/{id}", shopHandler.ProductDetail)
		v.Get("/products/{id}/price", shopHandler.PriceQuote)
		v.Get("/currencies", shopHandler.Currencies)

		v.Route("/auth", func(a chi.Router) {
			a.With(authLimit.Middleware).Post("/register", authHandler.Register)
			a.With(authLimit.Middleware).Post("/login", authHandler.Login)
			a.Post("/refresh", authHandler.Refresh)
			a.Post("/logout", authHandler.Logout)
			a.With(authMiddleware.RequireAuth).Post("/logout-all", authHandler.LogoutAll)
			a.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		v.Route("/carts", func(c chi.Router) {
			c.Use(authMiddleware.Authenticate)
			c.Post("/", cartHandler.Create)
			c.Get("/{cartID}", cartHandler.Get)
			c.Delete("/{cartID}", cartHandler.Clear)
			c.Post("/{cartID}/lines", cartHandler.AddLine)
			c.Patch("/{cartID}/lines/{lineID}", cartHandler.UpdateLine)
			c.Delete("/{cartID}/lines/{lineID}", cartHandler.RemoveLine)
			c.Post("/{cartID}/promo", cartHandler.ApplyPromo)
			c.Delete("/{cartID}/promo", cartHandler.RemovePromo)
		})

		v.With(authMiddleware.RequireAuth, idem.Middleware).Post("/checkout", checkoutHandler.Create)

		v.Group(func(g chi.Router) {
			g.Use(authMiddleware.RequireAuth)
			g.Get("/orders", orderHandler.List)
			g.Get("/orders/{id}", orderHandler.Get)
			g.Post("/orders/{id}/cancel", orderHandler.Cancel)

			g.Route("/me/addresses", func(a chi.Router) {
				a.Get("/", addressHandler.List)
				a.Post("/", addressHandler.Create)
				a.Put("/{id}", addressHandler.Update)
				a.Delete("/{id}", addressHandler.Delete)
			})

			g.Route("/me/wishlist", func(wl chi.Router) {
				wl.Get("/", wishlistHandler.List)
				wl.Put("/{productID}", wishlistHandler.Add)
				wl.Delete("/{productID}", wishlistHandler.Remove)
			})
		})

		v.With(idem.Middleware).Post("/appointments", appointmentHandler.Create)

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAdmin)
			admin.Get("/orders", orderAdmin.List)
			admin.Patch("/orders/{id}/status", orderAdmin.UpdateStatus)
			admin.Get("/appointments", appointmentAdmin.List)
			admin.Patch("/appointments/{id}/status", appointmentAdmin.UpdateStatus)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
