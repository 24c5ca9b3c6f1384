package service

import "fmt"

// ServiceError represents an error in the service layer, tagged with the
// operation that failed
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap exposes the underlying error so callers can classify it with errors.Is
func (e *ServiceError) Unwrap() error {
	return e.Err
}
