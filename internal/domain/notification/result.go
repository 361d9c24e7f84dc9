package notification

// Status is the final state of one delivery.
type Status int

const (
	// StatusPending means the request is still in flight.
	StatusPending Status = iota
	// StatusDelivered means a response arrived and its body parsed as JSON.
	StatusDelivered
	// StatusTransportFailed covers connection, DNS and TLS failures.
	StatusTransportFailed
	// StatusTimedOut means the request was aborted after the timeout.
	StatusTimedOut
	// StatusMalformedResponse means a response arrived but was not JSON.
	StatusMalformedResponse
)

// String returns the lower-case status name used in logs.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDelivered:
		return "delivered"
	case StatusTransportFailed:
		return "transport_failed"
	case StatusTimedOut:
		return "timed_out"
	case StatusMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Result is the outcome of one delivery.
type Result struct {
	// RequestID correlates the result with its log lines.
	RequestID string
	// Status is how the delivery ended.
	Status Status
	// StatusCode is the HTTP status, zero when no response arrived.
	StatusCode int
	// Body is the decoded JSON response for delivered requests.
	Body any
	// Err is the failure for every status except StatusDelivered.
	Err error
}

// OK reports whether the notification was delivered and answered with JSON.
func (r Result) OK() bool {
	return r.Status == StatusDelivered
}
