// Package provenance implements the provenance recording engine: request
// validation, identifier resolution, and the recorder state machine that
// turns a submitted event into a durable provenance record.
package provenance

// DefaultVersion is the sentinel substituted when a request carries no
// service version. Resolution by name alone applies only to this value.
const DefaultVersion = "Default"

// Request is one provenance submission. Optional fields are pointers so the
// engine can distinguish "absent" from "empty".
type Request struct {
	ObjectUUID    string  `json:"object_uuid"`
	ServiceName   string  `json:"service_name"`
	CategoryName  string  `json:"category_name"`
	EventName     string  `json:"event_name"`
	Username      string  `json:"username"`
	ProxyUsername *string `json:"proxy_username,omitempty"`
	EventData     *string `json:"event_data,omitempty"`
	SourceAddress string  `json:"source_address"`
	CreatedAt     int64   `json:"created_at"` // seconds since epoch, server-assigned
	Version       *string `json:"version,omitempty"`
	TrackHistory  bool    `json:"track_history,omitempty"`
	HistoryCode   *string `json:"track_history_code,omitempty"`
}

// EffectiveVersion returns the request version or DefaultVersion.
func (r *Request) EffectiveVersion() string {
	if r.Version == nil {
		return DefaultVersion
	}
	return *r.Version
}

// WriteShape selects which of the four insert statements applies to a
// request. Exactly one shape matches any combination of the optional fields.
type WriteShape int

const (
	// ShapeBasic: neither proxy username nor event data present.
	ShapeBasic WriteShape = iota
	// ShapeProxy: proxy username present, no event data.
	ShapeProxy
	// ShapeData: event data present, no proxy username.
	ShapeData
	// ShapeFull: both proxy username and event data present.
	ShapeFull
)

func (s WriteShape) String() string {
	switch s {
	case ShapeBasic:
		return "basic"
	case ShapeProxy:
		return "proxy"
	case ShapeData:
		return "data"
	case ShapeFull:
		return "full"
	}
	return "unknown"
}

// Shape classifies the request. The no-proxy/no-data case is checked first,
// then proxy-only, then data-only; both-present is the general case.
func (r *Request) Shape() WriteShape {
	switch {
	case r.ProxyUsername == nil && r.EventData == nil:
		return ShapeBasic
	case r.ProxyUsername != nil && r.EventData == nil:
		return ShapeProxy
	case r.ProxyUsername == nil && r.EventData != nil:
		return ShapeData
	default:
		return ShapeFull
	}
}

// Record is the durable unit of provenance: the request fields joined with
// the resolved identifiers.
type Record struct {
	ObjectUUID    string
	EventID       int64
	CategoryID    int64
	ServiceID     int64
	Username      string
	ProxyUsername *string
	EventData     *string
	SourceAddress string
	CreatedAt     int64
}

// NewRecord binds a request to its resolved identifiers.
func NewRecord(req *Request, ids Identifiers) Record {
	return Record{
		ObjectUUID:    req.ObjectUUID,
		EventID:       ids.EventID,
		CategoryID:    ids.CategoryID,
		ServiceID:     ids.ServiceID,
		Username:      req.Username,
		ProxyUsername: req.ProxyUsername,
		EventData:     req.EventData,
		SourceAddress: req.SourceAddress,
		CreatedAt:     req.CreatedAt,
	}
}
