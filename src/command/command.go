// Package command parses chat messages into commands and dispatches them
// to registered handlers.
package command

import (
	"context"
	"strings"
)

// Parsed is a command name followed by its arguments.
type Parsed struct {
	Name string
	Args []string
}

// Parse splits text on single spaces. The first token is the command name,
// the rest are kept verbatim as arguments.
func Parse(text string) (Parsed, error) {
	if text == "" {
		return Parsed{}, ErrEmptyCommand
	}

	tokens := strings.Split(text, " ")

	return Parsed{Name: tokens[0], Args: tokens[1:]}, nil
}

// Handler runs a command with its arguments and returns the reply text.
type Handler func(ctx context.Context, args []string) (string, error)

// Dispatcher maps command names to handlers.
type Dispatcher struct {
	handlers map[string]Handler
	names    []string
}

// NewDispatcher returns a Dispatcher with no commands registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Register binds name to h, replacing any previous handler for name.
func (d *Dispatcher) Register(name string, h Handler) {
	if _, exists := d.handlers[name]; !exists {
		d.names = append(d.names, name)
	}
	d.handlers[name] = h
}

// Names returns the registered command names in registration order.
func (d *Dispatcher) Names() []string {
	return append([]string(nil), d.names...)
}

// Execute runs the handler registered for cmd.Name.
func (d *Dispatcher) Execute(ctx context.Context, cmd Parsed) (string, error) {
	h, ok := d.handlers[cmd.Name]
	if !ok {
		return "", &UnknownCommandError{Name: cmd.Name}
	}

	return h(ctx, cmd.Args)
}
