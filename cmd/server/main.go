package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"podstudio/internal/db"
	"podstudio/internal/handlers"
	"podstudio/internal/middleware"
	"podstudio/internal/realtime"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	hub := realtime.NewHub()
	h := handlers.New(asynqClient, hub)
	defer h.Close()

	rateLimiter := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	r := mux.NewRouter()

	// Public podcast feed, no auth.
	r.HandleFunc("/rss/{uuid}", h.GetRSSFeed).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware, rateLimiter.Middleware)

	api.HandleFunc("/workspaces", h.CreateWorkspace).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}", h.GetWorkspace).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/members", h.ListTeamMembers).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}/members", h.AddTeamMember).Methods(http.MethodPost)

	api.HandleFunc("/episodes", h.CreateEpisode).Methods(http.MethodPost)
	api.HandleFunc("/episodes", h.ListEpisodes).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}", h.GetEpisode).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}", h.DeleteEpisode).Methods(http.MethodDelete)
	api.HandleFunc("/episodes/{id}/content", h.UpdateContent).Methods(http.MethodPut)

	api.HandleFunc("/episodes/{id}/workflow", h.GetWorkflow).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}/status", h.RequestTransition).Methods(http.MethodPost)

	api.HandleFunc("/episodes/{id}/comments", h.GetComments).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}/comments", h.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id}/status", h.UpdateCommentStatus).Methods(http.MethodPatch)
	api.HandleFunc("/comments/{id}/reactions", h.AddReaction).Methods(http.MethodPut)

	api.HandleFunc("/episodes/{id}/presence", h.Heartbeat).Methods(http.MethodPost)
	api.HandleFunc("/episodes/{id}/presence", h.Depart).Methods(http.MethodDelete)
	api.HandleFunc("/episodes/{id}/presence", h.GetActiveUsers).Methods(http.MethodGet)

	api.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	api.HandleFunc("/episodes/{id}/versions", h.GetVersions).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}/versions/{version}/restore", h.RestoreVersion).Methods(http.MethodPost)

	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(middleware.AuthMiddleware)
	ws.HandleFunc("/episodes/{id}", h.ServeEpisodeWS)

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
