package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/internal/transport/httpserver/middleware"
)

const dateLayout = "2006-01-02"

func principal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return user.Principal{}, false
	}
	return actor, true
}

// pathID reads a uuid path parameter, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value, err := parseUUID(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" must be a uuid")
		return "", false
	}
	return value, true
}

func parseUUID(value string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

func parseOptionalUUID(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return parseUUID(value)
}

// parseTime accepts RFC 3339 timestamps and plain dates. Plain dates are
// read as UTC midnight.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Parse(dateLayout, value)
}

// parseRangeParams reads date_from and date_to. A plain date in date_to
// covers the whole day.
func parseRangeParams(r *http.Request) (*time.Time, *time.Time, error) {
	query := r.URL.Query()

	var from, to *time.Time
	if raw := strings.TrimSpace(query.Get("date_from")); raw != "" {
		parsed, err := parseTime(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("date_from: %w", err)
		}
		from = &parsed
	}
	if raw := strings.TrimSpace(query.Get("date_to")); raw != "" {
		parsed, err := parseTime(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("date_to: %w", err)
		}
		if _, err := time.Parse(dateLayout, raw); err == nil {
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		to = &parsed
	}
	return from, to, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseBoolParam(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func parsePaging(r *http.Request) (int, int, error) {
	skip, err := parseIntParam(r.URL.Query().Get("skip"), 0)
	if err != nil {
		return 0, 0, fmt.Errorf("skip: %w", err)
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		return 0, 0, fmt.Errorf("limit: %w", err)
	}
	return skip, limit, nil
}
