// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/Cassssian/five-crowns/internal/auth"
	"github.com/Cassssian/five-crowns/internal/cache"
	"github.com/Cassssian/five-crowns/internal/database"
	"github.com/Cassssian/five-crowns/internal/handlers"
	"github.com/Cassssian/five-crowns/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// Action replay logging is optional; the game runs without it.
		logger.Warnf("Redis unavailable, action logging disabled: %v", err)
		cache.Rdb = nil
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.Handle("/user/me", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.MeHandler,
	)))
	mux.Handle("/user/profile", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.UpdateProfileHandler,
	)))

	srv := handlers.NewGameServer()

	// lobby endpoints
	mux.Handle("/lobby/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateLobbyHandler(srv),
	)))
	mux.Handle("/lobby/join/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.JoinLobbyHandler(srv),
	)))
	mux.Handle("/lobby/leave/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.LeaveLobbyHandler(srv),
	)))
	mux.Handle("/lobby/ai/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.AddAIHandler(srv),
	)))
	mux.Handle("/lobby/rules/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.UpdateRulesHandler(srv),
	)))
	mux.Handle("/lobby/start/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.StartGameHandler(srv),
	)))
	mux.Handle("/lobby/get/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GetLobbyHandler(srv),
	)))

	// game endpoints
	mux.Handle("/game/state/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GetGameStateHandler(srv),
	)))
	mux.Handle("/game/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
