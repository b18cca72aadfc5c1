package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdomaub-dev/rider-app/internal/common"
	"github.com/chrisdomaub-dev/rider-app/internal/common/geo"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// RideQuery describes one listing request. Annotations are opt-in: distance
// columns are only computed (and therefore only orderable) when requested.
type RideQuery struct {
	Status   model.RideStatus
	Search   string // matches rider or driver email
	Ordering []string
	Limit    int
	Offset   int

	WithDistance bool       // annotate pickup -> dropoff distance
	PickupPoint  *geo.Point // annotate reference point -> pickup distance
}

type RideRepository interface {
	List(ctx context.Context, q RideQuery) ([]model.Ride, int, error)
	FindByID(ctx context.Context, id string) (*model.Ride, error)
	Create(ctx context.Context, ride *model.Ride) error
	Update(ctx context.Context, ride *model.Ride) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, rideID string, from, to model.RideStatus) error
}

type pgRideRepository struct {
	db *sql.DB
}

func NewPgRideRepository(db *sql.DB) RideRepository {
	return &pgRideRepository{db: db}
}

const rideColumns = `r.id, r.rider_id, r.driver_id, r.status,
       r.pickup_latitude, r.pickup_longitude, r.dropoff_latitude, r.dropoff_longitude,
       r.pickup_time, r.created_at,
       ru.email, ru.first_name, ru.last_name, ru.role,
       du.email, du.first_name, du.last_name, du.role`

const rideJoins = ` FROM rides r
        JOIN users ru ON r.rider_id = ru.id
        JOIN users du ON r.driver_id = du.id`

// orderableColumns whitelists request ordering fields. The distance aliases
// resolve only when the matching annotation is part of the query.
var orderableColumns = map[string]string{
	"id":              "r.id",
	"created_at":      "r.created_at",
	"status":          "r.status",
	"pickup_time":     "r.pickup_time",
	"distance":        "distance",
	"pickup_distance": "pickup_distance",
}

// buildListQuery renders the listing and count statements for q. Distance
// annotations are pushed into the SQL select list so the database can order
// by them without materializing rows in the application.
func buildListQuery(q RideQuery) (listSQL string, listArgs []interface{}, countSQL string, countArgs []interface{}) {
	var sel strings.Builder
	sel.WriteString("SELECT ")
	sel.WriteString(rideColumns)

	argID := 1

	if q.WithDistance {
		expr := geo.Haversine{
			Lat1: geo.Col("r.pickup_latitude"),
			Lng1: geo.Col("r.pickup_longitude"),
			Lat2: geo.Col("r.dropoff_latitude"),
			Lng2: geo.Col("r.dropoff_longitude"),
		}
		fragment, args, next := expr.SQL(argID)
		sel.WriteString(",\n       " + fragment + " AS distance")
		listArgs = append(listArgs, args...)
		argID = next
	}

	if q.PickupPoint != nil {
		expr := geo.Haversine{
			Lat1: geo.Val(q.PickupPoint.Latitude),
			Lng1: geo.Val(q.PickupPoint.Longitude),
			Lat2: geo.Col("r.pickup_latitude"),
			Lng2: geo.Col("r.pickup_longitude"),
		}
		fragment, args, next := expr.SQL(argID)
		sel.WriteString(",\n       " + fragment + " AS pickup_distance")
		listArgs = append(listArgs, args...)
		argID = next
	}

	sel.WriteString(rideJoins)

	var conditions []string
	var filterArgs []interface{}
	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argID))
		filterArgs = append(filterArgs, q.Status)
		argID++
	}
	if q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(ru.email ILIKE $%d OR du.email ILIKE $%d)", argID, argID+1))
		pattern := "%" + q.Search + "%"
		filterArgs = append(filterArgs, pattern, pattern)
		argID += 2
	}
	if len(conditions) > 0 {
		sel.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	listArgs = append(listArgs, filterArgs...)

	sel.WriteString(" ORDER BY " + orderClause(q))
	sel.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	listArgs = append(listArgs, q.Limit, q.Offset)

	// Count uses the same joins and filters but no annotations; renumber args.
	var cnt strings.Builder
	cnt.WriteString("SELECT COUNT(*)")
	cnt.WriteString(rideJoins)
	countArgID := 1
	var countConditions []string
	if q.Status != "" {
		countConditions = append(countConditions, fmt.Sprintf("r.status = $%d", countArgID))
		countArgs = append(countArgs, q.Status)
		countArgID++
	}
	if q.Search != "" {
		countConditions = append(countConditions, fmt.Sprintf("(ru.email ILIKE $%d OR du.email ILIKE $%d)", countArgID, countArgID+1))
		pattern := "%" + q.Search + "%"
		countArgs = append(countArgs, pattern, pattern)
	}
	if len(countConditions) > 0 {
		cnt.WriteString(" WHERE " + strings.Join(countConditions, " AND "))
	}

	return sel.String(), listArgs, cnt.String(), countArgs
}

// orderClause maps validated ordering fields (optionally "-" prefixed) to SQL.
// Fields referencing an annotation that is not part of the query are dropped.
func orderClause(q RideQuery) string {
	var parts []string
	for _, field := range q.Ordering {
		desc := strings.HasPrefix(field, "-")
		name := strings.TrimPrefix(field, "-")

		column, ok := orderableColumns[name]
		if !ok {
			continue
		}
		if name == "distance" && !q.WithDistance {
			continue
		}
		if name == "pickup_distance" && q.PickupPoint == nil {
			continue
		}

		if desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column+" ASC")
		}
	}
	if len(parts) == 0 {
		return "r.id DESC"
	}
	return strings.Join(parts, ", ")
}

func (r *pgRideRepository) List(ctx context.Context, q RideQuery) ([]model.Ride, int, error) {
	listSQL, listArgs, countSQL, countArgs := buildListQuery(q)

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgRideRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgRideRepository.List: %w", err)
	}
	defer rows.Close()

	var rides []model.Ride
	for rows.Next() {
		ride, err := scanRide(rows, q.WithDistance, q.PickupPoint != nil)
		if err != nil {
			return nil, 0, fmt.Errorf("pgRideRepository.List scan: %w", err)
		}
		rides = append(rides, *ride)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgRideRepository.List rows: %w", err)
	}
	return rides, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRide(row rowScanner, withDistance, withPickupDistance bool) (*model.Ride, error) {
	ride := &model.Ride{
		Rider:  &model.User{},
		Driver: &model.User{},
	}

	dest := []interface{}{
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.Status,
		&ride.PickupLatitude, &ride.PickupLongitude, &ride.DropoffLatitude, &ride.DropoffLongitude,
		&ride.PickupTime, &ride.CreatedAt,
		&ride.Rider.Email, &ride.Rider.FirstName, &ride.Rider.LastName, &ride.Rider.Role,
		&ride.Driver.Email, &ride.Driver.FirstName, &ride.Driver.LastName, &ride.Driver.Role,
	}
	if withDistance {
		dest = append(dest, &ride.Distance)
	}
	if withPickupDistance {
		dest = append(dest, &ride.PickupDistance)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	ride.Rider.ID = ride.RiderID
	ride.Driver.ID = ride.DriverID
	return ride, nil
}

func (r *pgRideRepository) FindByID(ctx context.Context, id string) (*model.Ride, error) {
	query := "SELECT " + rideColumns + rideJoins + " WHERE r.id = $1"
	ride, err := scanRide(r.db.QueryRowContext(ctx, query, id), false, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgRideRepository.FindByID: %w", err)
	}
	return ride, nil
}

func (r *pgRideRepository) Create(ctx context.Context, ride *model.Ride) error {
	query := `INSERT INTO rides (id, rider_id, driver_id, status, pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude, pickup_time)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.RiderID, ride.DriverID, ride.Status,
		ride.PickupLatitude, ride.PickupLongitude, ride.DropoffLatitude, ride.DropoffLongitude,
		ride.PickupTime,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			return fmt.Errorf("rider or driver does not exist: %w", common.ErrValidation)
		}
		return fmt.Errorf("pgRideRepository.Create: %w", err)
	}
	return nil
}

func (r *pgRideRepository) Update(ctx context.Context, ride *model.Ride) error {
	query := `UPDATE rides SET
                driver_id = $1, pickup_latitude = $2, pickup_longitude = $3,
                dropoff_latitude = $4, dropoff_longitude = $5, pickup_time = $6
              WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		ride.DriverID, ride.PickupLatitude, ride.PickupLongitude,
		ride.DropoffLatitude, ride.DropoffLongitude, ride.PickupTime, ride.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("driver does not exist: %w", common.ErrValidation)
		}
		return fmt.Errorf("pgRideRepository.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgRideRepository.Update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgRideRepository) Delete(ctx context.Context, id string) error {
	// ride_events rows go with the ride via ON DELETE CASCADE
	res, err := r.db.ExecContext(ctx, `DELETE FROM rides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgRideRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgRideRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// UpdateStatus advances a ride's status inside the caller's transaction. The
// compare-and-set on the current status keeps concurrent transitions from
// skipping or repeating a step.
func (r *pgRideRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, rideID string, from, to model.RideStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE rides SET status = $1 WHERE id = $2 AND status = $3`,
		to, rideID, from,
	)
	if err != nil {
		return fmt.Errorf("pgRideRepository.UpdateStatus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgRideRepository.UpdateStatus: %w", err)
	}
	if affected == 0 {
		var current model.RideStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM rides WHERE id = $1`, rideID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("pgRideRepository.UpdateStatus: %w", err)
		}
		return fmt.Errorf("cannot set status from %s to %s: %w", current, to, common.ErrInvalidTransition)
	}
	return nil
}
