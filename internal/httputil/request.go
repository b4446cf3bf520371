package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is limited to 1MB and unknown fields are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// PathUUID returns the named path segment, which must be a UUID
func PathUUID(r *http.Request, name string) (string, error) {
	value := r.PathValue(name)
	if _, err := uuid.Parse(value); err != nil {
		return "", fmt.Errorf("%s must be a UUID", name)
	}
	return value, nil
}

// QueryTime parses a required RFC 3339 timestamp from the query string.
// A bare date (YYYY-MM-DD) is read as midnight UTC.
func QueryTime(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", name)
}
