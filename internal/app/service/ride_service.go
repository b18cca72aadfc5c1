package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdomaub-dev/rider-app/internal/common"
	"github.com/chrisdomaub-dev/rider-app/internal/common/geo"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/model"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/repository"

	"github.com/google/uuid"
)

// recentEventsWindow is how far back the per-ride event attachment reaches.
const recentEventsWindow = 24 * time.Hour

type RideService struct {
	rideRepo  repository.RideRepository
	eventRepo repository.RideEventRepository
	userRepo  repository.UserRepository
	db        *sql.DB // For transactions
	now       func() time.Time
}

func NewRideService(
	rideRepo repository.RideRepository,
	eventRepo repository.RideEventRepository,
	userRepo repository.UserRepository,
	db *sql.DB,
) *RideService {
	return &RideService{
		rideRepo:  rideRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		db:        db,
		now:       time.Now,
	}
}

// ListRidesParams carries the raw listing query parameters. Coordinate values
// stay strings here: a value that does not parse is skipped, never an error.
type ListRidesParams struct {
	Search           string
	Status           string
	Ordering         string // comma-separated field names, "-" prefix for descending
	Page             int
	Limit            int
	CurrentLatitude  string
	CurrentLongitude string
}

// ListRides inspects the request parameters and decides which distance
// annotations the repository should compute:
//  1. ordering on distance/-distance enables the pickup-to-dropoff annotation;
//  2. a parseable current_latitude/current_longitude pair enables the
//     reference-point annotation (silently skipped on a parse failure);
//  3. each returned ride carries its events from the last 24 hours, fetched
//     in one batch for the page.
func (s *RideService) ListRides(ctx context.Context, params ListRidesParams) ([]model.Ride, int, error) {
	q := repository.RideQuery{
		Search: params.Search,
		Limit:  params.Limit,
		Offset: (params.Page - 1) * params.Limit,
	}

	if params.Status != "" {
		status := model.RideStatus(params.Status)
		if !status.Valid() {
			return nil, 0, fmt.Errorf("unknown status %q: %w", params.Status, common.ErrValidation)
		}
		q.Status = status
	}

	q.Ordering = splitOrdering(params.Ordering)
	for _, field := range q.Ordering {
		if strings.TrimPrefix(field, "-") == "distance" {
			q.WithDistance = true
			break
		}
	}

	if params.CurrentLatitude != "" && params.CurrentLongitude != "" {
		lat, latErr := strconv.ParseFloat(params.CurrentLatitude, 64)
		lng, lngErr := strconv.ParseFloat(params.CurrentLongitude, 64)
		if latErr == nil && lngErr == nil {
			q.PickupPoint = &geo.Point{Latitude: lat, Longitude: lng}
		}
		// Invalid coordinates fall back silently; the listing proceeds
		// without the pickup_distance annotation.
	}

	rides, total, err := s.rideRepo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachRecentEvents(ctx, rides); err != nil {
		return nil, 0, err
	}
	return rides, total, nil
}

func splitOrdering(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func (s *RideService) attachRecentEvents(ctx context.Context, rides []model.Ride) error {
	ids := make([]string, len(rides))
	for i := range rides {
		ids[i] = rides[i].ID
	}

	since := s.now().Add(-recentEventsWindow)
	events, err := s.eventRepo.ListByRideIDs(ctx, ids, since)
	if err != nil {
		return fmt.Errorf("failed to load recent events: %w", err)
	}
	for i := range rides {
		if evs, ok := events[rides[i].ID]; ok {
			rides[i].RecentEvents = evs
		} else {
			rides[i].RecentEvents = []model.RideEvent{}
		}
	}
	return nil
}

func (s *RideService) GetRide(ctx context.Context, id string) (*model.Ride, error) {
	ride, err := s.rideRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rides := []model.Ride{*ride}
	if err := s.attachRecentEvents(ctx, rides); err != nil {
		return nil, err
	}
	return &rides[0], nil
}

type CreateRideRequest struct {
	RiderID          string    `json:"rider_id"`
	DriverID         string    `json:"driver_id"`
	PickupLatitude   *float64  `json:"pickup_latitude"`
	PickupLongitude  *float64  `json:"pickup_longitude"`
	DropoffLatitude  *float64  `json:"dropoff_latitude"`
	DropoffLongitude *float64  `json:"dropoff_longitude"`
	PickupTime       time.Time `json:"pickup_time"`
}

func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*model.Ride, error) {
	if req.RiderID == "" || req.DriverID == "" || req.PickupTime.IsZero() ||
		req.PickupLatitude == nil || req.PickupLongitude == nil ||
		req.DropoffLatitude == nil || req.DropoffLongitude == nil {
		return nil, fmt.Errorf("missing required fields for ride creation: %w", common.ErrValidation)
	}
	if err := validateCoordinates(*req.PickupLatitude, *req.PickupLongitude); err != nil {
		return nil, fmt.Errorf("pickup location: %w", err)
	}
	if err := validateCoordinates(*req.DropoffLatitude, *req.DropoffLongitude); err != nil {
		return nil, fmt.Errorf("dropoff location: %w", err)
	}

	if err := s.checkRideParticipant(ctx, req.RiderID, "rider"); err != nil {
		return nil, err
	}
	if err := s.checkRideParticipant(ctx, req.DriverID, "driver"); err != nil {
		return nil, err
	}

	ride := &model.Ride{
		ID:               uuid.NewString(),
		RiderID:          req.RiderID,
		DriverID:         req.DriverID,
		Status:           model.StatusPending, // rides always start here
		PickupLatitude:   *req.PickupLatitude,
		PickupLongitude:  *req.PickupLongitude,
		DropoffLatitude:  *req.DropoffLatitude,
		DropoffLongitude: *req.DropoffLongitude,
		PickupTime:       req.PickupTime,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}
	return s.GetRide(ctx, ride.ID)
}

// checkRideParticipant enforces the non-admin rule for rider and driver slots.
func (s *RideService) checkRideParticipant(ctx context.Context, userID, slot string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%s does not exist: %w", slot, common.ErrValidation)
		}
		return fmt.Errorf("failed to look up %s: %w", slot, err)
	}
	if !user.Role.CanTakeRide() {
		return fmt.Errorf("%s must not be an admin user: %w", slot, common.ErrValidation)
	}
	return nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range: %w", lat, common.ErrValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range: %w", lng, common.ErrValidation)
	}
	return nil
}

// UpdateRideRequest is a partial update. Rider and status are deliberately
// absent: the rider is fixed at creation and status only moves through
// AdvanceStatus.
type UpdateRideRequest struct {
	DriverID         *string    `json:"driver_id,omitempty"`
	PickupLatitude   *float64   `json:"pickup_latitude,omitempty"`
	PickupLongitude  *float64   `json:"pickup_longitude,omitempty"`
	DropoffLatitude  *float64   `json:"dropoff_latitude,omitempty"`
	DropoffLongitude *float64   `json:"dropoff_longitude,omitempty"`
	PickupTime       *time.Time `json:"pickup_time,omitempty"`
}

func (s *RideService) UpdateRide(ctx context.Context, id string, req UpdateRideRequest) (*model.Ride, error) {
	ride, err := s.rideRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DriverID != nil && *req.DriverID != ride.DriverID {
		if err := s.checkRideParticipant(ctx, *req.DriverID, "driver"); err != nil {
			return nil, err
		}
		ride.DriverID = *req.DriverID
	}
	if req.PickupLatitude != nil {
		ride.PickupLatitude = *req.PickupLatitude
	}
	if req.PickupLongitude != nil {
		ride.PickupLongitude = *req.PickupLongitude
	}
	if req.DropoffLatitude != nil {
		ride.DropoffLatitude = *req.DropoffLatitude
	}
	if req.DropoffLongitude != nil {
		ride.DropoffLongitude = *req.DropoffLongitude
	}
	if req.PickupTime != nil {
		ride.PickupTime = *req.PickupTime
	}

	if err := validateCoordinates(ride.PickupLatitude, ride.PickupLongitude); err != nil {
		return nil, fmt.Errorf("pickup location: %w", err)
	}
	if err := validateCoordinates(ride.DropoffLatitude, ride.DropoffLongitude); err != nil {
		return nil, fmt.Errorf("dropoff location: %w", err)
	}

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to update ride: %w", err)
	}
	return s.GetRide(ctx, id)
}

// AdvanceStatus moves a ride one step forward through the progression and
// records the matching audit event. The status write and the event insert
// share one transaction: neither is visible unless both commit.
func (s *RideService) AdvanceStatus(ctx context.Context, id string, target model.RideStatus) (*model.Ride, error) {
	if !target.Valid() || target == model.StatusPending {
		return nil, fmt.Errorf("unknown target status %q: %w", target, common.ErrValidation)
	}

	ride, err := s.rideRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := ride.Status.Next()
	if !ok || next != target {
		return nil, fmt.Errorf("cannot set status from %s to %s: %w", ride.Status, target, common.ErrInvalidTransition)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.rideRepo.UpdateStatus(ctx, tx, id, ride.Status, target); err != nil {
		return nil, err
	}

	event := &model.RideEvent{
		ID:          uuid.NewString(),
		RideID:      id,
		Description: fmt.Sprintf("Status changed to %s.", target),
	}
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to record ride event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetRide(ctx, id)
}

func (s *RideService) DeleteRide(ctx context.Context, id string) error {
	return s.rideRepo.Delete(ctx, id)
}
