package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdomaub-dev/rider-app/internal/domain/model"
)

type RideEventRepository interface {
	Create(ctx context.Context, tx *sql.Tx, event *model.RideEvent) error
	// ListByRideIDs fetches events created at or after since for every ride in
	// rideIDs with a single query, keyed by ride ID. Used to attach recent
	// events to a listing page without a per-row round trip.
	ListByRideIDs(ctx context.Context, rideIDs []string, since time.Time) (map[string][]model.RideEvent, error)
}

type pgRideEventRepository struct {
	db *sql.DB
}

func NewPgRideEventRepository(db *sql.DB) RideEventRepository {
	return &pgRideEventRepository{db: db}
}

func (r *pgRideEventRepository) Create(ctx context.Context, tx *sql.Tx, event *model.RideEvent) error {
	query := `INSERT INTO ride_events (id, ride_id, description) VALUES ($1, $2, $3)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, event.ID, event.RideID, event.Description)
	} else {
		_, err = r.db.ExecContext(ctx, query, event.ID, event.RideID, event.Description)
	}
	if err != nil {
		return fmt.Errorf("pgRideEventRepository.Create: %w", err)
	}
	return nil
}

func (r *pgRideEventRepository) ListByRideIDs(ctx context.Context, rideIDs []string, since time.Time) (map[string][]model.RideEvent, error) {
	events := make(map[string][]model.RideEvent)
	if len(rideIDs) == 0 {
		return events, nil
	}

	placeholders := make([]string, len(rideIDs))
	args := make([]interface{}, 0, len(rideIDs)+1)
	for i, id := range rideIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	args = append(args, since)

	query := fmt.Sprintf(`SELECT id, ride_id, description, created_at
	          FROM ride_events
	          WHERE ride_id IN (%s) AND created_at >= $%d
	          ORDER BY created_at ASC`, strings.Join(placeholders, ","), len(rideIDs)+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgRideEventRepository.ListByRideIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event model.RideEvent
		if err := rows.Scan(&event.ID, &event.RideID, &event.Description, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgRideEventRepository.ListByRideIDs scan: %w", err)
		}
		events[event.RideID] = append(events[event.RideID], event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRideEventRepository.ListByRideIDs rows: %w", err)
	}
	return events, nil
}
