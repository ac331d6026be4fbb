package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/services"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: as,
		validator:   validator.New(),
	}
}

// RegisterUser handles user registration via POST /auth/register
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	userResponse, err := h.authService.RegisterUser(req)
	if err != nil {
		if err.Error() == "email already registered" {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, userResponse)
}

// LoginUser handles user login via POST /auth/login
func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	loginResponse, err := h.authService.LoginUser(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, loginResponse)
}
