package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/cotizador/backend/internal/application/identity"
	noteapp "github.com/cotizador/backend/internal/application/note"
	partnerapp "github.com/cotizador/backend/internal/application/partner"
	quotationapp "github.com/cotizador/backend/internal/application/quotation"
	"github.com/cotizador/backend/internal/infrastructure/auth"
	"github.com/cotizador/backend/internal/infrastructure/cache"
	"github.com/cotizador/backend/internal/infrastructure/config"
	"github.com/cotizador/backend/internal/infrastructure/logger"
	"github.com/cotizador/backend/internal/infrastructure/persistence"
	"github.com/cotizador/backend/internal/infrastructure/printing"
	"github.com/cotizador/backend/internal/infrastructure/storage"
	"github.com/cotizador/backend/internal/infrastructure/telemetry"
	"github.com/cotizador/backend/internal/interfaces/http/handler"
	"github.com/cotizador/backend/internal/interfaces/http/middleware"
	"github.com/cotizador/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Cotizador API
//	@version		1.0
//	@description	Gestión de cotizaciones y generación de documentos PDF
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	baseCore := logger.NewCore(logger.FromLogConfig(cfg.Log))
	bootLog := logger.Wrap(baseCore)

	// Traces, metrics and logs go to the collector when enabled; the log
	// bridge tees into the local core.
	signals, err := telemetry.Start(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := bootLog
	if signals.LogsEnabled() {
		log = logger.Wrap(zapcore.NewTee(baseCore, signals.LogCore(logger.ParseLevel(cfg.Log.Level))))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Cotizador backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database), log).Register(db.DB); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis backs token revocation and the shared image cache. Without it
	// both fall back to process-local state.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var tokenBlacklist auth.TokenBlacklist
	var assetCache cache.AssetCache
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		assetCache = cache.NewAssetCache(cfg.ImageCache, redisClient, log)
	} else {
		log.Warn("Redis disabled, token revocation is local to this instance")
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		assetCache = cache.NewAssetCache(cfg.ImageCache, nil, log)
	}
	if closer, ok := assetCache.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	noteRepo := persistence.NewGormNoteRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Rendering
	renderMetrics, err := telemetry.NewRenderMetrics(signals.Meter("cotizador/printing"))
	if err != nil {
		log.Warn("Render metrics unavailable", zap.Error(err))
	}
	fetcher := printing.NewImageFetcher(
		printing.WithFetchTimeout(cfg.Printing.FetchTimeout),
		printing.WithMaxImageBytes(cfg.Printing.MaxImageBytes),
		printing.WithAssetCache(assetCache, cfg.ImageCache.TTL),
		printing.WithFetchMetrics(renderMetrics),
		printing.WithFetchLogger(log),
	)
	renderer := printing.NewRenderer(fetcher,
		printing.WithTaxLabel(cfg.Printing.TaxLabel),
		printing.WithRenderMetrics(renderMetrics),
		printing.WithRenderLogger(log),
	)

	location, err := time.LoadLocation(cfg.Printing.Location)
	if err != nil {
		log.Fatal("Invalid printing location", zap.Error(err))
	}
	documentOpts := []quotationapp.DocumentOption{
		quotationapp.WithLocation(location),
		quotationapp.WithDocumentLogger(log),
	}
	if cfg.Printing.ArchiveEnabled {
		objectStorage, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare archive bucket", zap.Error(err))
		}
		documentOpts = append(documentOpts, quotationapp.WithArchive(objectStorage, cfg.Storage.PresignExpiration))
		log.Info("Document archive enabled", zap.String("bucket", objectStorage.Bucket()))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, tokenBlacklist, cfg.JWT.AccessTokenExpiration, log)
	companyService := partnerapp.NewCompanyService(companyRepo)
	clientService := partnerapp.NewClientService(clientRepo)
	quotationService := quotationapp.NewService(quotationRepo, quotationRepo, companyRepo, clientRepo, log)
	documentService := quotationapp.NewDocumentService(quotationRepo, renderer, documentOpts...)
	noteService := noteapp.NewService(noteRepo)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Root span for the request, annotated once handlers ran
	// 3. Logger - Request logging with trace correlation
	// 4. Recovery - Catch panics
	// 5. Security - Security headers
	// 6. CORS - Cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. Metrics - RED metrics per route
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     signals.TracingEnabled(),
	}))
	engine.Use(middleware.SpanAnnotator())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(signals.Meter("cotizador/http")))

	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/health", healthHandler.Check)

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
	defer loginLimiter.Stop()

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	authenticate := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	engine.GET("/swagger/*any", middleware.DocsGuard(middleware.DocsConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, authenticate), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(authenticate)
	r.Register(router.DomainGroups(router.Handlers{
		Health:    healthHandler,
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Company:   handler.NewCompanyHandler(companyService),
		Client:    handler.NewClientHandler(clientService),
		Quotation: handler.NewQuotationHandler(quotationService, documentService),
		Note:      handler.NewNoteHandler(noteService),
	}, middleware.RateLimit(loginLimiter))...)
	r.Setup()
	for _, route := range r.Describe() {
		log.Debug("Route mounted", zap.String("method", route.Method), zap.String("path", route.Path), zap.String("group", route.Group))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := signals.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
