// Package middleware carries the cross-cutting HTTP concerns of the service:
// request logging for the lobby/user REST surface and connect/disconnect
// markers for the per-game WebSocket streams.
package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs every request with its method, path, caller and elapsed
// time.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.WithFields(logrus.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"remote":  r.RemoteAddr,
				"elapsed": time.Since(start),
			}).Info("http request")
		})
	}
}

// LogWebSocketConnect marks a player joining a game's event stream.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr, gameID, userID string) {
	logger.WithFields(logrus.Fields{
		"remote": remoteAddr,
		"game":   gameID,
		"user":   userID,
	}).Info("websocket connected")
}

// LogWebSocketDisconnect marks the stream closing, carrying the read error
// when the closure was not clean.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr, gameID, userID string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"game":   gameID,
		"user":   userID,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("websocket disconnected")
}
