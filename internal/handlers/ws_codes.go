// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used within the game handlers. These provide
// more specific reasons for closure than standard codes. Authentication and
// game lookup failures happen before the upgrade and are plain HTTP errors.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	NotGamePlayerError  = 3001 // Authenticated user holds no seat in the target game.
)
