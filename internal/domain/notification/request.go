package notification

const (
	// AuthorID is the pad author reported with every update.
	AuthorID = "2"
	// PadID is the pad reported with every update.
	PadID = "7"
)

// redacted replaces the key wherever it is formatted for humans.
const redacted = "[redacted]"

// APIKey is the shared secret the API checks before accepting an update.
// Formatting it with %v or %s prints a placeholder; JSON keeps the raw value.
type APIKey string

// String implements fmt.Stringer without leaking the secret.
func (k APIKey) String() string {
	if k == "" {
		return ""
	}

	return redacted
}

// GoString keeps %#v from leaking the secret too.
func (k APIKey) GoString() string {
	return k.String()
}

// Request is the body of an update notification.
type Request struct {
	// AuthorID identifies who changed the pad.
	AuthorID string `json:"authorId"`
	// PadID identifies the changed pad.
	PadID string `json:"padId"`
	// APIKey authenticates the caller.
	APIKey APIKey `json:"apiKey"`
}

// NewRequest builds the update notification for the configured pad and author.
func NewRequest(key APIKey) *Request {
	return &Request{
		AuthorID: AuthorID,
		PadID:    PadID,
		APIKey:   key,
	}
}
