package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bricks-api/internal/cache"
	"bricks-api/internal/config"
	"bricks-api/internal/db"
	"bricks-api/internal/email"
	apihttp "bricks-api/internal/http"
	"bricks-api/internal/repository"
	"bricks-api/internal/service"
	"bricks-api/internal/storage"

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

	userRepo := repository.NewPgUserRepository(pool)
	verificationRepo := repository.NewPgVerificationRepository(pool)
	propertyRepo := repository.NewPgPropertyRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	addressRepo := repository.NewPgAddressRepository(pool)
	scheduleRepo := repository.NewPgScheduleRepository(pool)

	var (
		redisClient *redis.Client
		mailLimiter service.MailRateLimiter
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
			redisClient = nil
		} else {
			mailLimiter = service.NewRedisMailRateLimiter(redisClient, 10*time.Minute, 3)
		}
		cancel()
	}
	cacheLayer := cache.New(redisClient, logger)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	clock := service.SystemClock()
	tokenSvc := service.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLMinutes)*time.Minute,
		clock,
	)
	verificationSvc := service.NewVerificationService(logger, verificationRepo, clock)
	authSvc := service.NewAuthService(
		logger,
		userRepo,
		verificationSvc,
		tokenSvc,
		emailSender,
		mailLimiter,
		clock,
		cfg.ClientDomain,
		time.Duration(cfg.VerificationTTLHours)*time.Hour,
	)
	propertySvc := service.NewPropertyService(logger, propertyRepo, categoryRepo, addressRepo, cacheLayer, clock)
	scheduleSvc := service.NewScheduleService(logger, scheduleRepo, propertyRepo, clock)
	userSvc := service.NewUserService(logger, userRepo)

	var uploadHandler *apihttp.UploadHandler
	if cfg.S3Region != "" && cfg.S3Bucket != "" {
		fileStore, err := storage.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Endpoint, logger)
		if err != nil {
			logger.Warn("s3 store init failed", zap.Error(err))
		} else {
			uploadHandler = apihttp.NewUploadHandler(logger, fileStore)
		}
	}

	authHandler := apihttp.NewAuthHandler(logger, authSvc, tokenSvc)
	propertyHandler := apihttp.NewPropertyHandler(logger, propertySvc)
	scheduleHandler := apihttp.NewScheduleHandler(logger, scheduleSvc)
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	healthHandler := apihttp.NewHealthHandler(pool, redisClient)

	router := apihttp.NewRouter(logger, tokenSvc, authHandler, propertyHandler, scheduleHandler, userHandler, uploadHandler, healthHandler)

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
