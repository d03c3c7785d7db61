package domain

// UserRole is the role attached to a signed-in user record.
type UserRole string

// User roles.
const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the opaque record produced by the login collaborator.
type User struct {
	Name  string   `json:"name" validate:"required"`
	Email string   `json:"email" validate:"required,email"`
	Role  UserRole `json:"role" validate:"required,oneof=user admin"`
}

// Persisted record keys. Each record is stored and loaded independently.
const (
	RecordUser   = "qp_user"
	RecordCart   = "qp_cart"
	RecordOrders = "qp_orders"
)

// SaveStatus classifies the outcome of a persistence step.
type SaveStatus string

// Save statuses.
const (
	SaveOK       SaveStatus = "ok"
	SaveSkipped  SaveStatus = "skipped"
	SaveTooLarge SaveStatus = "too_large"
	SaveIOError  SaveStatus = "io_error"
)

// SaveResult reports what happened when a record was persisted.
// A failed save never invalidates the in-memory state that produced it.
type SaveResult struct {
	Status SaveStatus
	Key    string
	Bytes  int
	Err    error
}

// OK reports whether the record was written or nothing needed writing.
func (r SaveResult) OK() bool {
	return r.Status == SaveOK || r.Status == SaveSkipped
}
