package confirm

// Status is the lifecycle state of a pending transaction.
//
// Transitions:
//
//	PendingConfirmation → Confirmed → Executed
//	PendingConfirmation → Cancelled
//	PendingConfirmation → Expired
//	any non-terminal    → Failed
type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusExecuted            Status = "executed"
	StatusCancelled           Status = "cancelled"
	StatusExpired             Status = "expired"
	StatusFailed              Status = "failed"
)

// Terminal reports whether no further transitions are possible from s.
// Once a transaction observably reaches a terminal state, every later
// operation on it sees that state and fails.
func (s Status) Terminal() bool {
	switch s {
	case StatusExecuted, StatusCancelled, StatusExpired, StatusFailed:
		return true
	}
	return false
}
