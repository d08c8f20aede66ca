package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/hoyyChoi/yeonseubpun/internal/repository"
	"github.com/hoyyChoi/yeonseubpun/internal/service"
	"github.com/hoyyChoi/yeonseubpun/internal/transport/rest/handler"
	"github.com/hoyyChoi/yeonseubpun/internal/transport/rest/middleware"
	"github.com/hoyyChoi/yeonseubpun/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	Questions      repository.QuestionRepo
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	questionHandler := handler.NewQuestionHandler(c.Questions)
	attemptHandler := handler.NewAttemptHandler(c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/session", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/attempts/{id}", wsHandler.AttemptWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/categories/{category}/questions", questionHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/categories/{category}/questions/{questionId}", questionHandler.Get).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/attempts", attemptHandler.Begin).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}", attemptHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}", attemptHandler.Abandon).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}/answer", attemptHandler.UpdateAnswer).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}/recording/start", attemptHandler.StartRecording).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}/recording/data", attemptHandler.AppendRecording).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}/recording/stop", attemptHandler.StopRecording).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}/recording/discard", attemptHandler.DiscardRecording).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/attempts/{id}/submit", attemptHandler.Submit).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
