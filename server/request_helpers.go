package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DecodeAndValidateRequest decodes a JSON body into dst and validates it.
// On failure it writes the 400 response and returns false.
func DecodeAndValidateRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
		return false
	}

	if err := GetValidator().ValidateStruct(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:    CodeInvalidRequest,
			Error:   "Invalid request. Please check your inputs.",
			Details: FormatValidationError(err),
		})
		return false
	}
	return true
}

// uuidParam parses a UUID route parameter, writing a 400 on failure
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// limitParam reads the optional limit query parameter; zero means the service default
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "limit must be between 1 and 100")
		return 0, false
	}
	return limit, true
}
