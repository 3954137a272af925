package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"callpulse/internal/cache"
	"callpulse/internal/config"
	"callpulse/internal/repository"
	"callpulse/internal/service"
	"callpulse/internal/transport/rest/handler"
	"callpulse/internal/transport/rest/middleware"
	"callpulse/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config         *config.Config
	AuthService    *service.AuthService
	WebhookService *service.WebhookService
	ScoreRepo      repository.ScoreRepo
	ScoreCache     cache.ScoreCache
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	webhookHandler := handler.NewWebhookHandler(c.WebhookService, c.Config.RetellWebhookSecret)
	scoreHandler := handler.NewScoreHandler(c.ScoreRepo, c.ScoreCache)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes: the webhook authenticates via provider signature, not JWT.
	v1.HandleFunc("/webhooks/retell/call-completed", webhookHandler.CallCompleted).Methods("POST")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// WebSocket score feed (token in query param)
	v1.HandleFunc("/ws/scores", wsHandler.ScoresWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Ops read routes (require ops auth)
	opsRoutes := v1.NewRoute().Subrouter()
	opsRoutes.Use(authMW.RequireOps)

	opsRoutes.HandleFunc("/calls/{callId}/score", scoreHandler.GetByCall).Methods("GET")
	opsRoutes.HandleFunc("/scores/recent", scoreHandler.Recent).Methods("GET")
	opsRoutes.HandleFunc("/scores/bands", scoreHandler.Bands).Methods("GET")

	return r
}
