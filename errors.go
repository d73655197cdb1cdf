package memoflight

import (
	"errors"
	"fmt"
)

// ErrNotSerializable is wrapped into the error returned when an argument
// tuple has no stable textual form and the call cannot be keyed.
var ErrNotSerializable = errors.New("memoflight: argument tuple not serializable")

// ProducerError records a failed producer invocation. The memoizer swallows
// it on the Do path (the entry simply stays absent) and reports it through
// Hooks and the Logger; it is exported for hook implementations that want
// to unwrap the cause.
type ProducerError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("memoflight: producer for %s/%s failed: %v", e.Namespace, e.Key, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }
