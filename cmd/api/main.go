package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"factcheck/internal/config"
	"factcheck/internal/db"
	apihttp "factcheck/internal/http"
	"factcheck/internal/repository"
	"factcheck/internal/scorer"
	"factcheck/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	checkRepo := repository.NewPgCheckRepository(pool)
	credRepo := repository.NewPgCredentialRepository(pool)

	var (
		revocations service.RevocationStore
		limiter     service.RateLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			revocations = service.NewRedisRevocationStore(redisClient)
			limiter = service.NewRedisRateLimiter(redisClient, cfg.CheckRateWindow(), cfg.CheckRateLimit)
		}
		cancel()
	}
	if revocations == nil {
		revocations = service.NewMemoryRevocationStore()
	}
	if limiter == nil {
		limiter = service.NewMemoryRateLimiter(cfg.CheckRateWindow(), cfg.CheckRateLimit)
	}

	var sc scorer.Scorer = scorer.NewRandomScorer()
	if cfg.ScorerBaseURL != "" {
		sc = scorer.NewHTTPScorer(cfg.ScorerBaseURL, cfg.ScorerAPIKey, logger)
	} else {
		logger.Warn("scorer not configured, using placeholder scores")
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL(), revocations)
	authn := service.NewAuthenticator(logger, tokenSvc, userRepo)
	identitySvc := service.NewIdentityService(logger, credRepo, userRepo, tokenSvc)
	profileSvc := service.NewProfileService(userRepo)
	dashboardSvc := service.NewDashboardService(userRepo, checkRepo)
	checkSvc := service.NewCheckService(logger, checkRepo, userRepo, sc, limiter)

	router := apihttp.NewRouter(
		logger,
		apihttp.RouterOptions{
			AllowedOrigins: cfg.AllowedOrigins(),
			RequestTimeout: cfg.RequestTimeout(),
		},
		authn,
		apihttp.NewAuthHandler(logger, identitySvc),
		apihttp.NewUserHandler(logger, profileSvc, dashboardSvc),
		apihttp.NewCheckHandler(logger, checkSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
