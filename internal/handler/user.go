package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"tush00nka/bbbab_chat/internal/pkg/httputils"
	"tush00nka/bbbab_chat/internal/service"
)

type UserHandler struct {
	userService service.UserService
	log         *slog.Logger
}

func NewUserHandler(userService service.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.listUsers).Methods("GET", "OPTIONS")
	router.HandleFunc("/users", h.createUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/users/{id}", h.getUser).Methods("GET", "OPTIONS")
}

type CreateUserRequest struct {
	Username string `json:"username"`
}

// @Summary Create user
// @Description Register a username
// @ID create-user
// @Tags users
// @Accept json
// @Produce json
// @Param userData body CreateUserRequest true "User data"
// @Success 201 {object} model.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /users [post]
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var request CreateUserRequest
	if err := decodeJSON(r, &request); err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), request.Username)
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, user)
}

// @Summary List users
// @ID list-users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} response.ErrorResponse
// @Router /users [get]
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, users)
}

// @Summary Get user
// @Description Get user by id
// @ID get-user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, user)
}
