// Package tool defines the capability contract pluggable tools satisfy and
// the registry the orchestration loop resolves them from.
package tool

import (
	"context"
	"fmt"

	"github.com/sndraw/bookroom-sub000/internal/message"
)

// Tool is a named capability advertised to the model. Parameters returns a
// JSON-schema object describing the accepted arguments.
//
// Execute reports expected failures (bad arguments, upstream errors) through
// Result.IsError with a human-readable content; the error return is reserved
// for unexpected faults, which the dispatcher converts into an error result
// rather than letting them escape the batch.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) (Result, error)
}

// Result is the outcome envelope of one tool invocation. ToolCallID is
// filled in by the dispatcher to correlate the result with the model's
// request.
type Result struct {
	Name       string          `json:"name"`
	Content    message.Content `json:"content"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	IsError    bool            `json:"is_error"`
}

// TextResult builds a successful result with plain-text content.
func TextResult(name, text string) Result {
	return Result{Name: name, Content: message.Text(text)}
}

// ErrorResult builds an error result with a formatted message.
func ErrorResult(name, format string, args ...any) Result {
	return Result{
		Name:    name,
		Content: message.Text(fmt.Sprintf(format, args...)),
		IsError: true,
	}
}
