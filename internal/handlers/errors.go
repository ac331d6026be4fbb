package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// respondServiceError maps service errors to the API error taxonomy:
// validation -> 400, not-found-or-not-owned -> 404, session conflicts -> 409,
// everything else is a storage failure logged and returned as a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrAlreadyFinalized):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrSessionActive), errors.Is(err, models.ErrNoActiveSession):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
