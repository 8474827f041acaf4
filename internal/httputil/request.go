package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"linkhive/internal/domain/models"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// ParseJSON decodes the request body into dest. Unknown fields are
// rejected so typos in PATCH bodies do not silently no-op.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParsePage reads ?limit= and ?offset=. Missing values fall back to
// defaultLimit and 0; malformed ones are an error.
func ParsePage(r *http.Request, defaultLimit int) (models.Page, error) {
	page := models.Page{Limit: defaultLimit}

	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, fmt.Errorf("limit must be a positive integer")
		}
		page.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, fmt.Errorf("offset must be a non-negative integer")
		}
		page.Offset = n
	}
	return page.Normalize(), nil
}

// OptionalQuery returns a pointer to a trimmed query value, or nil when the
// parameter is absent or blank
func OptionalQuery(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}
