package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/provenance/pkg/provenance"
)

type stubResolver struct{ err error }

func (s *stubResolver) Resolve(ctx context.Context, name string, kind provenance.Kind, version string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

type stubRegistry struct{ count int }

func (s *stubRegistry) CountRegistrations(ctx context.Context, objectUUID string) (int, error) {
	return s.count, nil
}

type stubStore struct {
	shapes []provenance.WriteShape
	err    error
}

func (s *stubStore) InsertRecord(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error {
	s.shapes = append(s.shapes, shape)
	return s.err
}

type stubSink struct{ calls int }

func (s *stubSink) Record(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error {
	s.calls++
	return nil
}

type stubHistory struct{}

func (stubHistory) Record(ctx context.Context, code *string, rec provenance.Record) (string, error) {
	if code == nil {
		return "generated-code", nil
	}
	return *code, nil
}

func (stubHistory) ReportStray(ctx context.Context, code string, rec provenance.Record) {}

func newTestRecorder(store *stubStore, sink *stubSink) *provenance.Recorder {
	return provenance.NewRecorder(provenance.Deps{
		Resolver: &stubResolver{},
		Registry: &stubRegistry{count: 1},
		Store:    store,
		History:  stubHistory{},
		Sink:     sink,
		Clock:    func() time.Time { return time.Unix(1700000000, 0) },
	})
}

func postForm(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/provenance", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.7:52311"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func validForm() url.Values {
	return url.Values{
		"uuid":          {"12345"},
		"service_name":  {"data-service"},
		"category_name": {"storage"},
		"event_name":    {"file-upload"},
		"username":      {"jdoe"},
	}
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) provenance.Result {
	t.Helper()
	var envelope struct {
		Result provenance.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	return envelope.Result
}

func TestProvenanceHandler_Success(t *testing.T) {
	store := &stubStore{}
	handler := NewProvenanceHandler(newTestRecorder(store, &stubSink{}), nil)

	rr := postForm(t, handler, validForm())

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	res := decodeResult(t, rr)
	assert.Equal(t, provenance.StatusSuccess, res.Status)
	assert.Equal(t, "Provenance recorded", res.Details)
	require.Len(t, store.shapes, 1)
	assert.Equal(t, provenance.ShapeBasic, store.shapes[0])
}

func TestProvenanceHandler_MethodNotAllowed(t *testing.T) {
	handler := NewProvenanceHandler(newTestRecorder(&stubStore{}, &stubSink{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/provenance", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	res := decodeResult(t, rr)
	assert.Equal(t, provenance.StatusFailed, res.Status)
	assert.Equal(t, "Incorrect HTTP METHOD", res.Details)
}

func TestProvenanceHandler_ValidationFailure(t *testing.T) {
	store := &stubStore{}
	handler := NewProvenanceHandler(newTestRecorder(store, &stubSink{}), nil)

	form := validForm()
	form.Set("uuid", "not-numeric")
	rr := postForm(t, handler, form)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res := decodeResult(t, rr)
	assert.Equal(t, "Validation Failed", res.Details)
	assert.Equal(t, "uuid value is not in the correct format", res.Report)
	assert.Empty(t, store.shapes)
}

func TestProvenanceHandler_OptionalFieldsSelectShape(t *testing.T) {
	store := &stubStore{}
	handler := NewProvenanceHandler(newTestRecorder(store, &stubSink{}), nil)

	form := validForm()
	form.Set("proxy_username", "svc_account")
	form.Set("event_data", `{"bytes": 1024}`)
	rr := postForm(t, handler, form)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.shapes, 1)
	assert.Equal(t, provenance.ShapeFull, store.shapes[0])
}

func TestProvenanceHandler_GeneratedHistoryCode(t *testing.T) {
	handler := NewProvenanceHandler(newTestRecorder(&stubStore{}, &stubSink{}), nil)

	form := validForm()
	form.Set("track_history", "1")
	rr := postForm(t, handler, form)

	res := decodeResult(t, rr)
	assert.Equal(t, provenance.StatusSuccess, res.Status)
	assert.Equal(t, "generated-code", res.HistoryCode)
}

func TestProvenanceHandler_StrayCodeWarning(t *testing.T) {
	handler := NewProvenanceHandler(newTestRecorder(&stubStore{}, &stubSink{}), nil)

	form := validForm()
	form.Set("track_history_code", "chain-12")
	rr := postForm(t, handler, form)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResult(t, rr)
	assert.Equal(t, provenance.StatusSuccess, res.Status)
	assert.Equal(t, "Track history flag is not set but history code was sent", res.Warning)
}

func TestProvenanceHandler_WriteFailure(t *testing.T) {
	store := &stubStore{err: assert.AnError}
	sink := &stubSink{}
	handler := NewProvenanceHandler(newTestRecorder(store, sink), nil)

	rr := postForm(t, handler, validForm())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	res := decodeResult(t, rr)
	assert.Equal(t, provenance.StatusFailed, res.Status)
	assert.Equal(t, "Provenance was not recorded. Audit data recorded.", res.Details)
	assert.Equal(t, 1, sink.calls)
}

func TestProvenanceHandler_SourceAddressFromConnection(t *testing.T) {
	store := &stubStore{}
	recorder := provenance.NewRecorder(provenance.Deps{
		Resolver: &stubResolver{},
		Registry: &stubRegistry{count: 1},
		Store: &captureStore{store: store, check: func(t *testing.T, rec provenance.Record) {
			assert.Equal(t, "10.0.0.7", rec.SourceAddress)
		}, t: t},
		History: stubHistory{},
		Sink:    &stubSink{},
	})
	handler := NewProvenanceHandler(recorder, nil)

	rr := postForm(t, handler, validForm())
	assert.Equal(t, http.StatusOK, rr.Code)
}

type captureStore struct {
	store *stubStore
	check func(*testing.T, provenance.Record)
	t     *testing.T
}

func (c *captureStore) InsertRecord(ctx context.Context, shape provenance.WriteShape, rec provenance.Record) error {
	c.check(c.t, rec)
	return c.store.InsertRecord(ctx, shape, rec)
}
