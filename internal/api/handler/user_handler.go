package handler

import (
	"net/http"

	"github.com/chrisdomaub-dev/rider-app/internal/api/middleware"
	"github.com/chrisdomaub-dev/rider-app/internal/app/service"
	"github.com/chrisdomaub-dev/rider-app/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Get("/", h.listUsers)        // GET /api/v1/users
	r.Get("/{userID}", h.getUser)  // GET /api/v1/users/{id}
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	page := common.ParsePage(r.URL.Query().Get("page"))
	limit := common.ParseLimit(r.URL.Query().Get("limit"))

	users, total, err := h.userService.ListUsers(r.Context(), page, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, "", common.PaginatedData{
		Count:   total,
		Page:    page,
		Limit:   limit,
		Results: users,
	})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithData(w, http.StatusOK, "", user)
}
