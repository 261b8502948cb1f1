package entity

// UserError codes synthesized locally. Remote application errors carry their
// own codes and are passed through untouched.
const (
	UserErrorLineNotAdded = "LINE_NOT_ADDED"
)

// UserError is an application-level validation failure, either returned by
// the remote commerce API alongside an otherwise successful response or
// synthesized when reconciliation shows a requested line did not persist.
type UserError struct {
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Field   []string `json:"field,omitempty"`
}
