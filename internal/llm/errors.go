package llm

import "fmt"

// TimeoutError means a call exceeded its context budget. The in-flight
// request is abandoned; no partial result is ever returned.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("llm %s: timed out: %v", e.Op, e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// NetworkError is a transport-level failure before any provider response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("llm %s: network: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ProviderError is a non-2xx response from the completion endpoint.
// Message holds the provider's error text for logging; callers decide
// whether it is safe to show.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string { return fmt.Sprintf("llm provider error %d: %s", e.Status, e.Message) }
