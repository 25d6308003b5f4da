package receipt

import "errors"

// Receipt composition errors. Callers match them with errors.Is; the wrapped
// message names the offending value or field.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidDate          = errors.New("invalid date")
	ErrMissingRequiredField = errors.New("missing required field")
)
