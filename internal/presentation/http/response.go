package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
)

// errorResponse is the error body shape: a human-readable cause plus the
// structured context a programmatic client can react to without parsing
// the message.
type errorResponse struct {
	Cause string         `json:"cause"`
	Data  map[string]any `json:"data,omitempty"`
}

// statusOf maps the closed error taxonomy to transport status codes.
func statusOf(kind core.Kind) int {
	switch kind {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindAlreadyExists:
		return http.StatusConflict
	case core.KindInvalid, core.KindRequired:
		return http.StatusBadRequest
	case core.KindUnauthorized:
		return http.StatusUnauthorized
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case core.KindExternalService:
		return http.StatusBadGateway
	case core.KindDatabase:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDomainError(w http.ResponseWriter, err error) {
	var de *core.DomainError
	if errors.As(err, &de) {
		writeJSON(w, statusOf(de.Kind), errorResponse{Cause: de.Message, Data: de.Data})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Cause: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Cause: err.Error()})
}
