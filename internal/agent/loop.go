package agent

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sndraw/bookroom-sub000/internal/llm"
	"github.com/sndraw/bookroom-sub000/internal/logging"
	"github.com/sndraw/bookroom-sub000/internal/message"
	"github.com/sndraw/bookroom-sub000/internal/tool"
)

// DefaultMaxSteps bounds the model/tool alternation when the caller does
// not choose a limit. The prompt additionally advertises a retry convention
// to the model, but only this guard is enforced in code.
const DefaultMaxSteps = 16

// ErrMaxStepsExceeded terminates a run that kept requesting tools past the
// configured step ceiling.
var ErrMaxStepsExceeded = errors.New("max orchestration steps exceeded")

// LoopState is per-run bookkeeping; it is never persisted.
type LoopState struct {
	Step     int
	Finished bool
	Content  string
}

// Loop alternates between the model and the tool set until the model
// answers without requesting tools. One Loop value runs one conversation
// turn and owns its message history exclusively while running.
type Loop struct {
	client   llm.Completer
	registry *tool.Registry
	sink     Sink
	params   llm.GenerationParams
	stream   bool
	maxSteps int
}

func NewLoop(client llm.Completer, registry *tool.Registry, sink Sink, opts Options) *Loop {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	if sink == nil {
		sink = NopSink{}
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Loop{
		client:   client,
		registry: registry,
		sink:     sink,
		params:   opts.Generation,
		stream:   opts.Stream,
		maxSteps: maxSteps,
	}
}

// Run drives the turn to completion. It returns the final state and the
// history including every assistant/tool message appended along the way;
// the history is valid even when err is non-nil.
func (l *Loop) Run(ctx context.Context, msgs []message.Message) (LoopState, []message.Message, error) {
	var state LoopState
	for {
		if state.Step >= l.maxSteps {
			state.Finished = true
			return state, msgs, fmt.Errorf("%w after %d steps", ErrMaxStepsExceeded, state.Step)
		}
		state.Step++

		content, toolCalls, err := l.completeOnce(ctx, msgs)
		if err != nil {
			// A model-call failure ends the turn just as surely as a final
			// answer does.
			state.Finished = true
			return state, msgs, err
		}

		if len(toolCalls) == 0 {
			state.Content = content
			state.Finished = true
			logging.Logger.Debug().Str("module", "agent").Int("step", state.Step).
				Msg("model returned a final answer")
			return state, msgs, nil
		}

		// Keep the model's call intent in history before the results; some
		// providers reject tool messages without it.
		msgs = append(msgs, message.NewAssistant(message.Params{ToolCalls: toolCalls}))
		for _, call := range toolCalls {
			l.sink.Log(fmt.Sprintf("正在调用工具 %s ...", call.Function.Name))
		}

		results := Dispatch(ctx, toolCalls, l.registry)
		for _, r := range results {
			if r.IsError {
				l.sink.Log(fmt.Sprintf("工具 %s 执行出错：%s", r.Name, r.Content.String()))
			}
			msgs = append(msgs, message.NewTool(message.Params{
				Name:       r.Name,
				ToolCallID: r.ToolCallID,
				Content:    r.Content,
			}))
		}
		logging.Logger.Debug().Str("module", "agent").Int("step", state.Step).
			Int("tool_calls", len(toolCalls)).Msg("tool batch dispatched")
	}
}

// completeOnce performs one model round trip, draining the stream when the
// loop runs in streaming mode. The end of the stream marks both content and
// tool-call accumulation complete for this iteration.
func (l *Loop) completeOnce(ctx context.Context, msgs []message.Message) (string, []openai.ToolCall, error) {
	req := llm.Request{
		Messages: msgs,
		Tools:    l.registry.Descriptors(),
		Params:   l.params,
	}

	if !l.stream {
		turn, err := l.client.Complete(ctx, req)
		if err != nil {
			return "", nil, err
		}
		return turn.Content, turn.ToolCalls, nil
	}

	s, err := l.client.Stream(ctx, req)
	if err != nil {
		return "", nil, err
	}
	defer s.Close()

	var content string
	var acc llm.Accumulator
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("reading completion stream: %w", err)
		}
		if chunk.Content != "" {
			content += chunk.Content
			l.sink.Output(chunk.Content)
		}
		acc.Add(chunk.ToolCalls)
	}
	return content, acc.Calls(), nil
}
