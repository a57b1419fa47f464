package suggestion

import "errors"

// Errors
var (
	ErrMissingAPIKey     = errors.New("POE_API_KEY environment variable is not set")
	ErrUpstream          = errors.New("suggestion model call failed")
	ErrMalformedResponse = errors.New("suggestion response is not valid JSON")
	ErrRemote            = errors.New("suggestion service returned an error")
)
