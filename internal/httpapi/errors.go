// Package httpapi is the thin resource-oriented HTTP/JSON surface over
// the service layer: request parsing, go-playground/validator struct-tag
// validation, domain-error-to-status-code mapping, and effective-status
// substitution on every task response.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hivellm/taskqueue-go/internal/taskerr"
)

// errorBody is the stable JSON error shape every non-2xx response carries.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusForKind maps a domain error kind onto its HTTP status code.
func statusForKind(k taskerr.Kind) int {
	switch k {
	case taskerr.KindTaskNotFound, taskerr.KindWorkflowNotFound, taskerr.KindProjectNotFound:
		return http.StatusNotFound
	case taskerr.KindInvalidTaskDefinition, taskerr.KindWorkflowValidationFailed,
		taskerr.KindCircularDependency, taskerr.KindInvalidStatusTransition,
		taskerr.KindValidationError, taskerr.KindSerializationError:
		return http.StatusBadRequest
	case taskerr.KindDependencyNotSatisfied:
		return http.StatusConflict
	case taskerr.KindTimeoutError:
		return 504
	case taskerr.KindStorageError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as the taxonomy's JSON error shape, picking the
// status code from its taskerr.Kind (defaulting to 500 for anything that
// didn't originate in the service layer).
func writeError(w http.ResponseWriter, err error) {
	kind := taskerr.KindOf(err)
	writeJSON(w, statusForKind(kind), errorBody{Error: string(kind), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return taskerr.Wrap(taskerr.KindSerializationError, err, "decoding request body")
	}
	return nil
}
