package domain

import "time"

// RecordID is a unique identifier for a request-history record.
type RecordID string

// String returns the string representation of the RecordID.
func (id RecordID) String() string {
	return string(id)
}

// RequestKind distinguishes the two request types the service records.
type RequestKind string

const (
	KindInfo     RequestKind = "info"
	KindDownload RequestKind = "download"
)

// Outcome is the final state of a recorded request.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// RequestRecord is one entry in the request history. It holds request
// metadata only; no video content is ever persisted.
type RequestRecord struct {
	ID        RecordID
	Kind      RequestKind
	URL       string
	FormatID  string
	Title     string
	Outcome   Outcome
	Error     string
	Bytes     int64
	CreatedAt time.Time
}
