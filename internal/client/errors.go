package client

import "fmt"

// PredictionError wraps any transport, server, or decode failure of the
// property prediction call.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("property prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// DosingError wraps any transport, server, or decode failure of the
// dosing calculation call.
type DosingError struct {
	Err error
}

func (e *DosingError) Error() string {
	return fmt.Sprintf("dosing calculation failed: %v", e.Err)
}

func (e *DosingError) Unwrap() error { return e.Err }
