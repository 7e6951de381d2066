package provenance

import (
	"context"
	"errors"
)

// Kind selects which identifier namespace a name resolves in.
type Kind string

const (
	KindEvent    Kind = "EVENT"
	KindCategory Kind = "CATEGORY"
	KindService  Kind = "SERVICE"
)

// ErrUnresolved reports that a name has no identifier in the store. It is a
// data-quality failure, distinct from validation failure: the caller rejects
// the request without attempting the registration check or any write.
var ErrUnresolved = errors.New("name does not resolve to a known identifier")

// Resolver maps human-readable names to stable numeric identifiers.
//
// Events and categories resolve by name alone. Services are version-scoped:
// the version participates in the lookup unless it is DefaultVersion. The
// store is trusted to keep names unique within each scope; the resolver does
// not verify it.
type Resolver interface {
	Resolve(ctx context.Context, name string, kind Kind, version string) (int64, error)
}

// Identifiers is the fully resolved triple a request needs before anything
// may be written.
type Identifiers struct {
	EventID    int64
	CategoryID int64
	ServiceID  int64
}

// ResolveAll resolves the three identifiers for a request. The first
// unresolved name aborts with ErrUnresolved; any other resolver error is
// returned as-is.
func ResolveAll(ctx context.Context, r Resolver, req *Request) (Identifiers, error) {
	version := req.EffectiveVersion()

	eventID, err := r.Resolve(ctx, req.EventName, KindEvent, version)
	if err != nil {
		return Identifiers{}, err
	}
	categoryID, err := r.Resolve(ctx, req.CategoryName, KindCategory, version)
	if err != nil {
		return Identifiers{}, err
	}
	serviceID, err := r.Resolve(ctx, req.ServiceName, KindService, version)
	if err != nil {
		return Identifiers{}, err
	}

	return Identifiers{EventID: eventID, CategoryID: categoryID, ServiceID: serviceID}, nil
}
