package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/provenance/pkg/store"
)

type stubLookup struct {
	uuid string
	err  error
}

func (s *stubLookup) LookupUUID(ctx context.Context, serviceObjectID string) (string, error) {
	return s.uuid, s.err
}

func getLookup(handler http.Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/object_lookup"+query, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestObjectHandler_Found(t *testing.T) {
	handler := NewObjectHandler(&stubLookup{uuid: "12345"}, nil)

	rr := getLookup(handler, "?service_object_id=svc-obj-1")

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "12345", body["uuid"])
}

func TestObjectHandler_NotFound(t *testing.T) {
	handler := NewObjectHandler(&stubLookup{err: store.ErrObjectNotFound}, nil)

	rr := getLookup(handler, "?service_object_id=svc-obj-2")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Object does not exist")
}

func TestObjectHandler_MultipleReported(t *testing.T) {
	handler := NewObjectHandler(&stubLookup{err: store.ErrMultipleObjects}, nil)

	rr := getLookup(handler, "?service_object_id=svc-obj-3")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Multiple objects found")
	assert.Contains(t, rr.Body.String(), "Exception")
}

func TestObjectHandler_MissingParam(t *testing.T) {
	handler := NewObjectHandler(&stubLookup{}, nil)

	rr := getLookup(handler, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestObjectHandler_MethodNotAllowed(t *testing.T) {
	handler := NewObjectHandler(&stubLookup{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/object_lookup", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
