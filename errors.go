package sdk

import "errors"

// Host-call failures shared by the capability clients. Callers match them
// with errors.Is; the underlying cause is joined alongside.
var (
	// ErrHostCall indicates the waPC call to a host capability did not complete.
	ErrHostCall = errors.New("waPC host capability call failed")

	// ErrHostResponseInvalid indicates the host answered with a payload or status code the client cannot interpret.
	ErrHostResponseInvalid = errors.New("host capability response is malformed or has an unknown status")

	// ErrHostError indicates the host handled the call and reported a failure status (bad input, missing resource, internal error).
	ErrHostError = errors.New("host capability reported a failure status")
)
