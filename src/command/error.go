package command

import (
	"errors"
	"fmt"
)

// ParseError is returned when a message cannot be read as a command.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "cannot parse command: " + e.Reason
}

// ErrEmptyCommand is returned by Parse for empty text.
var ErrEmptyCommand = &ParseError{Reason: "empty text"}

// UnknownCommandError is returned by Execute for unregistered names.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %s", e.Name)
}

// InvalidCommandError is returned by handlers given bad arguments.
type InvalidCommandError struct {
	Name   string
	Reason string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid %s command: %s", e.Name, e.Reason)
}

// IsCommandError reports whether err is one of the errors above, as
// opposed to a failure inside a handler.
func IsCommandError(err error) bool {
	var (
		parseErr   *ParseError
		unknownErr *UnknownCommandError
		invalidErr *InvalidCommandError
	)

	return errors.As(err, &parseErr) || errors.As(err, &unknownErr) || errors.As(err, &invalidErr)
}
