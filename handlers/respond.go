package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"timetracker/services"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps subsystem sentinel errors onto HTTP statuses.
// Authorization failures stay distinct from not-found.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case services.IsForbidden(err):
		status = http.StatusForbidden
	case services.IsStateConflict(err):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidHours):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"detail": detail})
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
