package confirm

type Error string

func (e Error) Error() string { return "confirm: " + string(e) }

const (
	// ErrInvalidConfig is returned by NewRegistry for an unusable configuration.
	ErrInvalidConfig Error = "invalid registry configuration"
	// ErrInvalidParameters is returned when a creation request is malformed,
	// for example a floor price above the target price.
	ErrInvalidParameters Error = "invalid transaction parameters"
	// ErrRateLimited is returned when a buyer exceeds the creation limit
	// within the sliding window. The caller may retry later.
	ErrRateLimited Error = "transaction creation rate limit exceeded"
	// ErrNotFound is returned when no transaction exists under the given id.
	ErrNotFound Error = "transaction not found"
	// ErrWrongState is returned for an operation that is illegal in the
	// transaction's current state.
	ErrWrongState Error = "operation not allowed in current state"
	// ErrInvalidConfirmation is returned when the confirmation input does
	// not meet the strength required by the transaction's safeguard level.
	ErrInvalidConfirmation Error = "confirmation input rejected"
)
