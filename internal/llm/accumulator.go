package llm

import openai "github.com/sashabaranov/go-openai"

// Accumulator rebuilds complete tool-call invocations from streamed deltas.
// The provider splits one logical tool call across many chunks: the first
// chunk anchors it with an id, later chunks reference it by id or by
// positional index and carry argument fragments of one JSON text.
//
// Argument strings are fragments, not documents; they must not be parsed
// until the surrounding stream segment has ended. Fragment ordering is an
// upstream contract the accumulator cannot verify on its own.
type Accumulator struct {
	calls []openai.ToolCall
}

// Add merges one chunk's tool-call deltas into the accumulated state.
func (a *Accumulator) Add(deltas []openai.ToolCall) {
	for _, d := range deltas {
		switch {
		case d.ID != "":
			if existing := a.byID(d.ID); existing != nil {
				existing.Function.Arguments += d.Function.Arguments
			} else {
				a.calls = append(a.calls, d)
			}
		case d.Index != nil && d.Function.Arguments != "":
			// An index-only delta can extend an anchored call but never
			// create one: the first reference must arrive with an id.
			if existing := a.byIndex(*d.Index); existing != nil {
				existing.Function.Arguments += d.Function.Arguments
			}
		}
		// Anything else matches neither rule and is dropped.
	}
}

func (a *Accumulator) byID(id string) *openai.ToolCall {
	for i := range a.calls {
		if a.calls[i].ID == id {
			return &a.calls[i]
		}
	}
	return nil
}

func (a *Accumulator) byIndex(idx int) *openai.ToolCall {
	for i := range a.calls {
		if a.calls[i].Index != nil && *a.calls[i].Index == idx {
			return &a.calls[i]
		}
	}
	return nil
}

// Calls returns the accumulated invocations in first-appearance order.
func (a *Accumulator) Calls() []openai.ToolCall {
	return a.calls
}

// Len reports how many invocations have been anchored so far.
func (a *Accumulator) Len() int {
	return len(a.calls)
}
