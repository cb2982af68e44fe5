package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/jobboard-be/internal/database"
	"github.com/isdelr/jobboard-be/internal/models"
	"github.com/rs/zerolog/log"
)

// MaxEventLimit caps GetRecentEvents.
const MaxEventLimit = 100

// EventServiceProvider defines the interface for the activity log.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, actorID *string) error
	GetRecentEvents(ctx context.Context, actorID string, limit int) ([]models.Event, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventService provides business logic for the activity log.
type EventService struct {
	db  *sql.DB
	now func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db, now: time.Now}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, actorID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		ActorID:   actorID,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, actor_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.ActorID, database.FormatTime(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events recorded for actorID.
func (s *EventService) GetRecentEvents(ctx context.Context, actorID string, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > MaxEventLimit {
		limit = MaxEventLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, actor_id, created_at FROM events WHERE actor_id = ? ORDER BY created_at DESC LIMIT ?",
		actorID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var createdAt string
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.ActorID, &createdAt); err != nil {
			return nil, err
		}
		if event.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at for event %s: %w", event.ID, err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneBefore deletes events created before cutoff and returns how many
// were removed.
func (s *EventService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", database.FormatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return res.RowsAffected()
}

// record writes an activity event on behalf of another service. Failures are
// logged and never surface to the caller.
func record(ctx context.Context, events EventServiceProvider, eventType, message, actorID string) {
	if events == nil {
		return
	}
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	if err := events.CreateEvent(ctx, eventType, "info", message, actor); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record activity event")
	}
}
