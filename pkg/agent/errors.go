package agent

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrModelTimeout means the model did not answer within the invoker timeout.
	ErrModelTimeout = errors.New("model call timed out")
	// ErrModelBackend wraps any other model failure.
	ErrModelBackend = errors.New("model backend error")
	// ErrParse means the response was not a valid directive.
	ErrParse = errors.New("invalid directive")
	// ErrUnknownTool means the directive named a tool the provider does not have.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolInvocation means the tool provider failed to run the call.
	ErrToolInvocation = errors.New("tool invocation failed")
)

// ParseError reports a model response that is not a directive.
type ParseError struct {
	Response string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid directive %q: %v", e.Response, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// UnknownToolError names the tool the model asked for.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }
