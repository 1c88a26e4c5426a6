package checkout

import "errors"

// Generic messages returned when a saga fails after writes have started.
// The specific cause is logged server-side, never surfaced to the caller.
var (
	ErrCreateOrderFailed = errors.New("Error al crear la orden")
	ErrUpdateOrderFailed = errors.New("Error al actualizar la orden")
)

// ValidationError is a business-rule violation detected before any write.
// Its message is safe to return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
