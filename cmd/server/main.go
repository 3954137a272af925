package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"callpulse/internal/cache"
	"callpulse/internal/config"
	"callpulse/internal/repository"
	"callpulse/internal/scoring"
	"callpulse/internal/service"
	"callpulse/internal/transport/rest"
	"callpulse/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	if cfg.RetellAPIKey == "" {
		log.Println("Warning: RETELL_API_KEY not set, enrichment lookups disabled")
	}
	if cfg.TwilioAccountSID == "" || cfg.OpsAlertNumber == "" {
		log.Println("Warning: Twilio/ops number not fully configured, SMS alerts disabled")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("Score feed hub started")

	// Initialize repositories and caches
	sessionRepo := repository.NewSessionRepo(db)
	scoreRepo := repository.NewScoreRepo(db)
	scoreCache := cache.NewScoreCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.OpsUsername, cfg.OpsPassword, cfg.JWTSecret)
	calculator := scoring.NewCalculator(scoring.NewClassifier(scoring.DefaultCategories()))
	matcher := service.NewCallMatcher(sessionRepo)
	retellClient := service.NewRetellClient(cfg.RetellAPIBase, cfg.RetellAPIKey)
	notifier := service.NewSMSNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.OpsAlertNumber)
	webhookSvc := service.NewWebhookService(sessionRepo, scoreRepo, scoreCache, matcher, calculator, retellClient, notifier)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	webhookSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		Config:         cfg,
		AuthService:    authSvc,
		WebhookService: webhookSvc,
		ScoreRepo:      scoreRepo,
		ScoreCache:     scoreCache,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/webhooks/retell/call-completed")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/calls/{callId}/score")
		log.Println("  GET  /v1/scores/recent")
		log.Println("  GET  /v1/scores/bands")
		log.Println("  WS   /v1/ws/scores")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
