package remote

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by operations issued before Connect succeeds.
var ErrNotConnected = errors.New("not connected")

// ConnectionError reports a failed handshake or a transport failure that ends
// the session.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// OperationError reports a single failed request on a live connection.
type OperationError struct {
	Op      string
	ID      string
	Code    string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	target := e.Op
	if e.ID != "" {
		target = fmt.Sprintf("%s %s", e.Op, e.ID)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", target, msg, e.Code)
	}
	return fmt.Sprintf("%s: %s", target, msg)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err ends the session.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
