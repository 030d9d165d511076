package nfs3

import "fmt"

// StatusError wraps a non-OK nfsstat3 so callers can branch on the raw
// code while logging/display code uses Error() for the human message.
type StatusError struct {
	Op     string
	Status uint32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, StatusMessage(e.Status))
}

