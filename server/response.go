package server

import (
	"encoding/json"
	"net/http"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps err onto a status code and writes it with any hints
func writeDomainError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: err.Error(),
		Hint:  errors.FlattenHints(err),
	})
}

// statusFor picks the HTTP status for a domain error
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrTableExists):
		return http.StatusConflict
	case errors.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.IsInputError(err), errors.IsSchemaError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// readJSON reads and decodes a JSON request body, rejecting unknown fields
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return err
	}
	return nil
}
