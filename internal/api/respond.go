package api

import (
	"encoding/json"
	"log"
	"net/http"

	"parkspot/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

// writeError maps the error kind to an HTTP status and emits a structured
// body. Internal causes stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)
	message := err.Error()
	if kind == apperrors.KindInternal {
		log.Printf("Internal error: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{
		"error": message,
		"kind":  string(kind),
	})
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindSlotUnavailable, apperrors.KindOverlapConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
