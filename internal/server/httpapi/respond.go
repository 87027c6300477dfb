package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
	"github.com/dmitrijs2005/scalehub/internal/server/scalelink"
	"github.com/dmitrijs2005/scalehub/internal/server/services"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeDetail writes the plain-string form of the error envelope,
// {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeFieldErrors writes the array form of the error envelope,
// {"detail": [{loc, msg, type}, ...]}.
func writeFieldErrors(w http.ResponseWriter, status int, fields []scaleapi.FieldError) {
	writeJSON(w, status, map[string]any{"detail": fields})
}

// fieldError builds one detail entry. loc starts with the part of the
// request the field came from ("body", "path").
func fieldError(msg, kind string, loc ...any) scaleapi.FieldError {
	return scaleapi.FieldError{Loc: loc, Msg: msg, Type: kind}
}

// validationMsg strips the sentinel prefix from a validation error so the
// wire detail reads "port must be between 1 and 65535", not
// "validation error: port must be...".
func validationMsg(err error) string {
	return strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
}

// respondError maps a service error onto the wire contract: 404 for
// missing devices and products, 409 for duplicates, 422 for validation
// failures, 401 for rejected credentials, 502 when the scale itself is
// unreachable, 500 for everything unexpected.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		writeDetail(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrNothingCached):
		writeDetail(w, http.StatusNotFound, "No products cached for device")
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Device not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusConflict, "Already exists")
	case errors.Is(err, common.ErrorValidation):
		writeFieldErrors(w, http.StatusUnprocessableEntity, []scaleapi.FieldError{
			fieldError(validationMsg(err), "value_error", "body"),
		})
	case errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, scalelink.ErrScaleUnavailable):
		writeDetail(w, http.StatusBadGateway, "Scale unavailable")
	default:
		s.logger.Error(r.Context(), "request failed", "error", err.Error())
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into dst and answers the FastAPI-style
// 422 itself when the body is not valid JSON. Returns false when the
// request has already been answered.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, []scaleapi.FieldError{
			fieldError("request body is not valid JSON", "value_error.jsondecode", "body"),
		})
		return false
	}
	return true
}
