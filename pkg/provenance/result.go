package provenance

import "net/http"

// Status is the outcome class of a recording attempt.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// Result is the structured outcome returned to the caller. Report carries
// rule-level detail on rejection; HistoryCode is present only when the engine
// generated a fresh chain code; Warning flags the supplied-code-without-flag
// inconsistency, which does not fail the write.
type Result struct {
	Status      Status `json:"status"`
	Details     string `json:"details"`
	Report      string `json:"report,omitempty"`
	HistoryCode string `json:"history_code,omitempty"`
	Warning     string `json:"warning,omitempty"`

	httpStatus int
}

// Response detail strings.
const (
	detailRecorded         = "Provenance recorded"
	detailValidationFailed = "Validation Failed"
	detailBadNames         = "Incorrect Service/Category/Event data."
	detailNotRecorded      = "Provenance not recorded"
	detailAuditRecorded    = "Provenance was not recorded. Audit data recorded."
)

// Registration check reports, duplicate distinguished from missing.
const (
	reportDuplicateObject = "More than one record found for given UUID. Support has been notified."
	reportMissingObject   = "No registered object found for given UUID."
)

// HTTPStatus maps the result onto the wire status the shell should emit.
func (r Result) HTTPStatus() int {
	if r.httpStatus != 0 {
		return r.httpStatus
	}
	if r.Status == StatusSuccess {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

func success() Result {
	return Result{Status: StatusSuccess, Details: detailRecorded, httpStatus: http.StatusOK}
}

func failure(details, report string, httpStatus int) Result {
	return Result{Status: StatusFailed, Details: details, Report: report, httpStatus: httpStatus}
}
