// internal/handlers/user.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Cassssian/five-crowns/internal/auth"
	"github.com/Cassssian/five-crowns/internal/database"
	"github.com/Cassssian/five-crowns/internal/models"
)

// EnsureEphemeralUser resolves the caller's identity from the auth_token
// cookie, minting a new ephemeral guest (and cookie) when the token is absent
// or invalid. Every visitor can play without signing up.
func EnsureEphemeralUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	cookieHeader := r.Header.Get("Cookie")
	if strings.Contains(cookieHeader, "auth_token=") {
		token := extractCookieToken(cookieHeader, "auth_token")
		userIDStr, err := auth.AuthenticateJWT(token)
		if err == nil {
			userID, parseErr := uuid.Parse(userIDStr)
			if parseErr != nil {
				return uuid.Nil, fmt.Errorf("invalid user ID in token: %w", parseErr)
			}
			return userID, nil
		}
		// Fall through: stale or forged token gets a fresh guest identity.
	}
	return createEphemeralUser(w)
}

func createEphemeralUser(w http.ResponseWriter) (uuid.UUID, error) {
	guest := models.User{
		Username:    "Guest",
		IsEphemeral: true,
	}
	if database.DB != nil {
		if err := database.CreateUser(context.Background(), &guest); err != nil {
			return uuid.Nil, fmt.Errorf("failed to create ephemeral user: %w", err)
		}
	} else {
		// No database in this deployment; identity lives only in the token.
		id, err := uuid.NewRandom()
		if err != nil {
			return uuid.Nil, err
		}
		guest.ID = id
	}

	token, err := auth.CreateJWT(guest.ID.String(), true)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create ephemeral JWT: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return guest.ID, nil
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	BadgeID  string `json:"badgeId"`
}

// UpdateProfileHandler lets a player change their display identity (username,
// avatar, badge) before or between games.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	userID, err := EnsureEphemeralUser(w, r)
	if err != nil {
		writeJSONError(w, http.StatusForbidden, err.Error())
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Username == "" {
		writeJSONError(w, http.StatusBadRequest, "username required")
		return
	}

	if database.DB != nil {
		if err := database.UpdateUserProfile(r.Context(), userID, req.Username, req.Avatar, req.BadgeID); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":       userID.String(),
		"username": req.Username,
		"avatar":   req.Avatar,
		"badgeId":  req.BadgeID,
	})
}

// MeHandler returns the caller's identity, minting a guest when needed.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := EnsureEphemeralUser(w, r)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if database.DB != nil {
		if u, err := database.GetUserByID(r.Context(), userID); err == nil {
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": userID.String(), "username": "Guest"})
}
