package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/services"
	"github.com/rs/zerolog/log"
)

const headerSessionNotice = "X-Session-Notice"

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeError maps err onto a status code and a user-facing message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	var rerr *services.RemoteError
	switch {
	case apperrors.As(err, &rerr):
		message = rerr.UserMessage()
	case apperrors.Is(err, apperrors.ErrSessionExpired):
		message = apperrors.ErrSessionExpired.Error()
	case apperrors.Is(err, apperrors.ErrEmptyCart):
		message = apperrors.ErrEmptyCart.Error()
	case apperrors.Is(err, apperrors.ErrTransport):
		message = apperrors.ErrTransport.Error()
	}

	if status >= http.StatusInternalServerError {
		logError(r.Method, r.URL.Path, err.Error())
	}
	writeJSONError(w, message, status)
}

func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrNotAuthenticated),
		apperrors.Is(err, apperrors.ErrSessionExpired),
		apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrTransport), apperrors.Is(err, apperrors.ErrRemote):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "malformed request body: %v", err)
	}
	return nil
}
