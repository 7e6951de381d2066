package provenance

import "regexp"

var (
	uuidPattern = regexp.MustCompile(`^[0-9]+$`)
	namePattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+$`)
)

// Validation reason strings. The required-fields message lists every gating
// field; the per-field messages name the offending field only.
const (
	reasonPassed         = "Validation Passed"
	reasonRequiredFields = "uuid/event_name/category_name/service_name/username cannot be empty"
)

// RawRequest carries the unparsed submission into validation. All fields are
// pointers: validation is the one place that distinguishes a missing field
// from a malformed one.
type RawRequest struct {
	ObjectUUID    *string
	ServiceName   *string
	CategoryName  *string
	EventName     *string
	Username      *string
	ProxyUsername *string
	Version       *string
}

// Validate applies the fixed-order lexical rules and stops at the first
// violation. It returns whether the submission is acceptable and a reason
// string suitable for the response Report field.
//
// Order: required-field presence, then objectUuid, serviceName, categoryName,
// eventName, username, then proxyUsername (when present), then version (when
// present). Later fields are never inspected once an earlier one fails.
func Validate(raw RawRequest) (bool, string) {
	if raw.ObjectUUID == nil || raw.ServiceName == nil || raw.CategoryName == nil ||
		raw.EventName == nil || raw.Username == nil {
		return false, reasonRequiredFields
	}

	if !uuidPattern.MatchString(*raw.ObjectUUID) {
		return false, "uuid value is not in the correct format"
	}

	named := []struct {
		field string
		value string
	}{
		{"service_name", *raw.ServiceName},
		{"category_name", *raw.CategoryName},
		{"event_name", *raw.EventName},
		{"username", *raw.Username},
	}
	for _, f := range named {
		if !namePattern.MatchString(f.value) {
			return false, f.field + " value is not in the correct format"
		}
	}

	if raw.ProxyUsername != nil && !namePattern.MatchString(*raw.ProxyUsername) {
		return false, "proxy_username value is not in the correct format"
	}

	if raw.Version != nil && !namePattern.MatchString(*raw.Version) {
		return false, "version value is not in the correct format"
	}

	return true, reasonPassed
}

// ValidateRequest adapts a parsed Request for validation. Required fields on
// Request are plain strings; an empty string is treated as absent, matching
// how the HTTP shell maps missing parameters.
func ValidateRequest(req *Request) (bool, string) {
	raw := RawRequest{
		ProxyUsername: req.ProxyUsername,
		Version:       req.Version,
	}
	if req.ObjectUUID != "" {
		raw.ObjectUUID = &req.ObjectUUID
	}
	if req.ServiceName != "" {
		raw.ServiceName = &req.ServiceName
	}
	if req.CategoryName != "" {
		raw.CategoryName = &req.CategoryName
	}
	if req.EventName != "" {
		raw.EventName = &req.EventName
	}
	if req.Username != "" {
		raw.Username = &req.Username
	}
	return Validate(raw)
}
