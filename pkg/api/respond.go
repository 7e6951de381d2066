// Package api is the HTTP shell around the provenance engine: parameter
// extraction, response encoding, and request middleware. All decision logic
// lives in pkg/provenance.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/tracefold/provenance/pkg/provenance"
)

// resultEnvelope wraps every provenance response body.
type resultEnvelope struct {
	Result provenance.Result `json:"result"`
}

// WriteResult encodes a recording result with the given HTTP status.
func WriteResult(w http.ResponseWriter, status int, res provenance.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resultEnvelope{Result: res})
}

// WriteMethodNotAllowed rejects any verb other than the accepted one before
// any processing happens.
func WriteMethodNotAllowed(w http.ResponseWriter) {
	WriteResult(w, http.StatusMethodNotAllowed, provenance.Result{
		Status:  provenance.StatusFailed,
		Details: "Incorrect HTTP METHOD",
	})
}
