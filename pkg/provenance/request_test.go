package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_Shape(t *testing.T) {
	proxy := "proxy_user"
	data := `{"size": 42}`

	cases := []struct {
		name  string
		req   Request
		shape WriteShape
	}{
		{"no optional fields", Request{}, ShapeBasic},
		{"proxy only", Request{ProxyUsername: &proxy}, ShapeProxy},
		{"data only", Request{EventData: &data}, ShapeData},
		{"proxy and data", Request{ProxyUsername: &proxy, EventData: &data}, ShapeFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.shape, tc.req.Shape())
		})
	}
}

func TestRequest_EffectiveVersion(t *testing.T) {
	req := Request{}
	assert.Equal(t, DefaultVersion, req.EffectiveVersion())

	v := "1-2-0"
	req.Version = &v
	assert.Equal(t, "1-2-0", req.EffectiveVersion())
}

func TestNewRecord(t *testing.T) {
	proxy := "proxy_user"
	req := &Request{
		ObjectUUID:    "42",
		Username:      "jdoe",
		ProxyUsername: &proxy,
		SourceAddress: "10.0.0.7",
		CreatedAt:     1700000000,
	}
	ids := Identifiers{EventID: 1, CategoryID: 2, ServiceID: 3}

	rec := NewRecord(req, ids)
	assert.Equal(t, "42", rec.ObjectUUID)
	assert.Equal(t, int64(1), rec.EventID)
	assert.Equal(t, int64(2), rec.CategoryID)
	assert.Equal(t, int64(3), rec.ServiceID)
	assert.Equal(t, &proxy, rec.ProxyUsername)
	assert.Nil(t, rec.EventData)
	assert.Equal(t, int64(1700000000), rec.CreatedAt)
}
