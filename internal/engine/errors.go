package engine

import "errors"

// Errors returned for inputs no run can be built from. Callers match them
// with errors.Is; the returned errors wrap them with the offending value.
var (
	ErrNilField         = errors.New("darkness field is nil")
	ErrNilLayout        = errors.New("nail layout is nil")
	ErrTooFewNails      = errors.New("layout needs at least 2 nails")
	ErrContrastRange    = errors.New("contrast factor must be between 0.0 and 2.0")
	ErrNegativeTarget   = errors.New("max strings must be 0 (unbounded) or positive")
	ErrUnknownStrategy  = errors.New("unknown coverage strategy")
	ErrNotColorPrepared = errors.New("image was not prepared in color mode")
	ErrFieldMismatch    = errors.New("channel fields must share dimensions")
)
