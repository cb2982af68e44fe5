package models

import "time"

// Event types recorded in the activity log.
const (
	EventUserRegister = "user.register"
	EventUserLogin    = "user.login"
	EventJobCreate    = "job.create"
	EventJobUpdate    = "job.update"
	EventJobDelete    = "job.delete"
)

// Event represents a loggable action in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "job.create", "user.login"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	ActorID   *string   `json:"actorId,omitempty"` // Nullable for system events
	CreatedAt time.Time `json:"createdAt"`
}
