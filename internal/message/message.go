// Package message defines the conversation turn model shared by the chat
// client, the tool dispatcher and the orchestration loop.
package message

import (
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
	RoleFunction  Role = "function"
)

// Message is one turn in a conversation. Turns are append-only once added to
// a history; only streaming assistant content grows in place until the
// stream ends.
type Message struct {
	ID         string            `json:"id"`
	Role       Role              `json:"role"`
	Content    Content           `json:"content"`
	Name       string            `json:"name,omitempty"`
	ToolCalls  []openai.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
}

// Params carries the optional fields a constructor may copy. Each
// constructor picks only the fields that make sense for its role; anything
// else is ignored. No validation happens here, malformed input is the
// caller's problem.
type Params struct {
	ID         string
	Content    Content
	Name       string
	ToolCalls  []openai.ToolCall
	ToolCallID string
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// NewUser builds a user turn. Media attachments travel inside Content.Parts.
func NewUser(p Params) Message {
	return Message{
		ID:      newID(p.ID),
		Role:    RoleUser,
		Content: p.Content,
	}
}

// NewAssistant builds an assistant turn, keeping any tool calls the model
// emitted alongside the visible content.
func NewAssistant(p Params) Message {
	return Message{
		ID:        newID(p.ID),
		Role:      RoleAssistant,
		Content:   p.Content,
		ToolCalls: p.ToolCalls,
	}
}

// NewSystem builds a system turn.
func NewSystem(p Params) Message {
	return Message{
		ID:      newID(p.ID),
		Role:    RoleSystem,
		Content: p.Content,
	}
}

// NewTool builds a tool-result turn. ToolCallID must match the id of the
// tool call in the preceding assistant turn that requested it.
func NewTool(p Params) Message {
	return Message{
		ID:         newID(p.ID),
		Role:       RoleTool,
		Content:    p.Content,
		Name:       p.Name,
		ToolCallID: p.ToolCallID,
	}
}

// TruncateBefore returns the prefix of history strictly before the message
// whose ID equals id: the matched message and everything after it are
// dropped. When id is empty or not present the full history is returned as
// a shallow copy. This backs "regenerate from this point" semantics.
func TruncateBefore(history []Message, id string) []Message {
	if id != "" {
		for i := range history {
			if history[i].ID == id {
				return append([]Message(nil), history[:i]...)
			}
		}
	}
	return append([]Message(nil), history...)
}
