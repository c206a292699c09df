package domain

import "errors"

// ErrConceptNotFound is returned when a concept identifier has no binding
// in the registry. Transports surface this as an error-variant completion,
// never as a failed request.
var ErrConceptNotFound = errors.New("concept not found")
