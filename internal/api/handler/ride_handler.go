package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chrisdomaub-dev/rider-app/internal/api/middleware"
	"github.com/chrisdomaub-dev/rider-app/internal/app/service"
	"github.com/chrisdomaub-dev/rider-app/internal/common"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type RideHandler struct {
	rideService *service.RideService
}

func NewRideHandler(rs *service.RideService) *RideHandler {
	return &RideHandler{rideService: rs}
}

func (h *RideHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)

	r.Get("/", h.listRides)            // GET /api/v1/rides
	r.Post("/", h.createRide)          // POST /api/v1/rides
	r.Get("/{rideID}", h.getRide)      // GET /api/v1/rides/{id}
	r.Patch("/{rideID}", h.updateRide) // PATCH /api/v1/rides/{id}
	r.Delete("/{rideID}", h.deleteRide)

	// Status transitions; each endpoint moves to its own fixed target.
	r.Post("/{rideID}/set/en-route", h.setStatus(model.StatusEnRoute))
	r.Post("/{rideID}/set/pickup", h.setStatus(model.StatusPickup))
	r.Post("/{rideID}/set/dropoff", h.setStatus(model.StatusDropoff))
}

func (h *RideHandler) listRides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := common.ParsePage(query.Get("page"))
	limit := common.ParseLimit(query.Get("limit"))

	params := service.ListRidesParams{
		Search:           query.Get("search"),
		Status:           query.Get("status"),
		Ordering:         query.Get("ordering"),
		Page:             page,
		Limit:            limit,
		CurrentLatitude:  query.Get("current_latitude"),
		CurrentLongitude: query.Get("current_longitude"),
	}

	rides, total, err := h.rideService.ListRides(r.Context(), params)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if rides == nil {
		rides = []model.Ride{}
	}
	common.RespondWithData(w, http.StatusOK, "", common.PaginatedData{
		Count:   total,
		Page:    page,
		Limit:   limit,
		Results: rides,
	})
}

func (h *RideHandler) getRide(w http.ResponseWriter, r *http.Request) {
	rideID := chi.URLParam(r, "rideID")

	ride, err := h.rideService.GetRide(r.Context(), rideID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, "", ride)
}

func (h *RideHandler) createRide(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.CreateRide(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusCreated, "Successfully created a Ride record.", ride)
}

func (h *RideHandler) updateRide(w http.ResponseWriter, r *http.Request) {
	rideID := chi.URLParam(r, "rideID")

	var req service.UpdateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ride, err := h.rideService.UpdateRide(r.Context(), rideID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, "Successfully updated the Ride record.", ride)
}

func (h *RideHandler) setStatus(target model.RideStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideID := chi.URLParam(r, "rideID")

		ride, err := h.rideService.AdvanceStatus(r.Context(), rideID, target)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithData(w, http.StatusOK, "Successfully set the Ride as "+string(target)+".", ride)
	}
}

func (h *RideHandler) deleteRide(w http.ResponseWriter, r *http.Request) {
	rideID := chi.URLParam(r, "rideID")

	if err := h.rideService.DeleteRide(r.Context(), rideID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, "Successfully deleted the Ride record.", nil)
}
