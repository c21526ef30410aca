package review

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned by the batch runner when the item list is empty,
// so callers can distinguish "nothing to do" from a successful empty batch.
var ErrNoInput = errors.New("no input items to review")

// ConfigurationError reports an invalid pipeline or executor setup. It is
// raised at construction time, never during a run.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// GatewayError wraps a provider failure during a stage. A GatewayError
// aborts the remaining stages of the run it occurred in.
type GatewayError struct {
	Stage     string
	Transient bool
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("stage %s: gateway: %v", e.Stage, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// InputReadError reports that an item's content could not be loaded. It is
// recovered at the batch level: the item is marked failed, the batch
// continues.
type InputReadError struct {
	Item string
	Err  error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("read input %s: %v", e.Item, e.Err)
}

func (e *InputReadError) Unwrap() error {
	return e.Err
}
