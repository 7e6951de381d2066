package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/tracefold/provenance/pkg/provenance"
)

// ProvenanceHandler accepts provenance submissions over HTTP and hands them
// to the recorder. Parameters arrive form- or query-encoded.
type ProvenanceHandler struct {
	recorder *provenance.Recorder
	logger   *slog.Logger
}

func NewProvenanceHandler(recorder *provenance.Recorder, logger *slog.Logger) *ProvenanceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvenanceHandler{recorder: recorder, logger: logger.With("component", "api")}
}

func (h *ProvenanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteMethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		WriteResult(w, http.StatusBadRequest, provenance.Result{
			Status:  provenance.StatusFailed,
			Details: "Malformed request parameters",
		})
		return
	}

	req := &provenance.Request{
		ObjectUUID:    r.FormValue("uuid"),
		ServiceName:   r.FormValue("service_name"),
		CategoryName:  r.FormValue("category_name"),
		EventName:     r.FormValue("event_name"),
		Username:      r.FormValue("username"),
		ProxyUsername: optionalParam(r, "proxy_username"),
		EventData:     optionalParam(r, "event_data"),
		Version:       optionalParam(r, "version"),
		HistoryCode:   optionalParam(r, "track_history_code"),
		TrackHistory:  r.FormValue("track_history") == "1",
		SourceAddress: remoteHost(r),
	}

	h.logger.Info("received provenance request",
		"uuid", req.ObjectUUID,
		"service", req.ServiceName,
		"category", req.CategoryName,
		"event", req.EventName,
		"username", req.Username,
		"source", req.SourceAddress,
		"track_history", req.TrackHistory,
	)

	res := h.recorder.Record(r.Context(), req)

	h.logger.Info("request processed",
		"uuid", req.ObjectUUID, "status", res.Status, "details", res.Details, "http_status", res.HTTPStatus())
	WriteResult(w, res.HTTPStatus(), res)
}

// optionalParam distinguishes an absent parameter from a present one.
func optionalParam(r *http.Request, name string) *string {
	vals, ok := r.Form[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// remoteHost strips the port from the connection address.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
