package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tracefold/provenance/pkg/store"
)

// ObjectLookup resolves a service object id to its registered object UUID.
type ObjectLookup interface {
	LookupUUID(ctx context.Context, serviceObjectID string) (string, error)
}

// ObjectHandler serves the read-only object lookup used by services to find
// the UUID a registration was assigned.
type ObjectHandler struct {
	lookup ObjectLookup
	logger *slog.Logger
}

func NewObjectHandler(lookup ObjectLookup, logger *slog.Logger) *ObjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectHandler{lookup: lookup, logger: logger.With("component", "object-lookup")}
}

type objectStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

func (h *ObjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteMethodNotAllowed(w)
		return
	}

	objectID := r.FormValue("service_object_id")
	if objectID == "" {
		writeObjectStatus(w, http.StatusBadRequest, "Failed", "service_object_id is required")
		return
	}

	uuid, err := h.lookup.LookupUUID(r.Context(), objectID)
	switch {
	case err == nil:
		h.logger.Info("lookup object exists", "service_object_id", objectID, "uuid", uuid)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"uuid": uuid})
	case errors.Is(err, store.ErrObjectNotFound):
		h.logger.Error("object uuid is null", "service_object_id", objectID)
		writeObjectStatus(w, http.StatusNotFound, "Failed", "Object does not exist")
	case errors.Is(err, store.ErrMultipleObjects):
		h.logger.Error("more than one object found", "service_object_id", objectID)
		writeObjectStatus(w, http.StatusNotFound, "Exception",
			"Multiple objects found with the same service_object_id. Incident has been reported")
	default:
		h.logger.Error("object lookup error", "service_object_id", objectID, "error", err)
		writeObjectStatus(w, http.StatusInternalServerError, "Failed",
			"Lookup could not be completed. Incident has been reported")
	}
}

func writeObjectStatus(w http.ResponseWriter, code int, status, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(objectStatus{Status: status, Details: details})
}
