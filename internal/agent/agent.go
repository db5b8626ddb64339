// Package agent contains the tool-calling orchestration core: the loop that
// alternates between model calls and tool dispatch, and the top-level
// QuestionChat wrapper callers interact with.
package agent

import (
	"context"

	"github.com/sndraw/bookroom-sub000/internal/llm"
	"github.com/sndraw/bookroom-sub000/internal/logging"
	"github.com/sndraw/bookroom-sub000/internal/message"
	"github.com/sndraw/bookroom-sub000/internal/tool"
)

// msgReplyFailed is the soft-failure answer used when the model finishes
// without producing any content.
const msgReplyFailed = "回复失败，请重试！"

// Params describes one user query. Query is the new user turn; when its ID
// matches a message in History the conversation is replayed from that point
// (everything from the matched message on is dropped first).
type Params struct {
	Prompt  string
	Query   message.Message
	History []message.Message
	// IsMemory includes prior history in the model context.
	IsMemory bool
	UserID   string
}

// Options configures a run.
type Options struct {
	Registry   *tool.Registry
	Sink       Sink
	Stream     bool
	MaxSteps   int
	Generation llm.GenerationParams
}

// Reply is what callers always get back, error or not.
type Reply struct {
	Finished bool   `json:"finished"`
	Content  string `json:"content"`
	IsError  bool   `json:"isError"`
}

// Agent runs conversation turns against one chat completion client. The
// client and tool registry are shared across turns and must be safe for
// concurrent use; each turn's message history is owned by that turn alone.
type Agent struct {
	client llm.Completer
}

func New(client llm.Completer) *Agent {
	return &Agent{client: client}
}

// QuestionChat runs one full user-query-to-answer turn. It never returns an
// error: any failure is logged, folded into the history as an assistant
// message and reported through Reply.IsError, so the returned history is
// always valid and inspectable.
func (a *Agent) QuestionChat(ctx context.Context, p Params, opts Options) (Reply, []message.Message) {
	registry := opts.Registry
	if registry == nil {
		registry = tool.NewRegistry()
	}
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	msgs := []message.Message{
		message.NewSystem(message.Params{Content: message.Text(BuildSystemPrompt(registry, p.Prompt))}),
	}
	if p.IsMemory && len(p.History) > 0 {
		msgs = append(msgs, message.TruncateBefore(p.History, p.Query.ID)...)
	}
	msgs = append(msgs, message.NewUser(message.Params{ID: p.Query.ID, Content: p.Query.Content}))

	loop := NewLoop(a.client, registry, sink, opts)
	state, msgs, err := loop.Run(ctx, msgs)
	if err != nil {
		logging.Logger.Error().Err(err).Str("module", "agent").
			Str("user_id", p.UserID).Int("step", state.Step).Msg("conversation turn failed")
		sink.Log(err.Error())
		msgs = append(msgs, message.NewAssistant(message.Params{Content: message.Text(err.Error())}))
		return Reply{Finished: state.Finished, Content: err.Error(), IsError: true}, msgs
	}

	content := state.Content
	isError := false
	if content == "" {
		// The model finished without tool calls and without content; this
		// is a soft failure, not an exception path.
		content = msgReplyFailed
		isError = true
	}
	if !opts.Stream || isError {
		sink.Output(content)
	}
	msgs = append(msgs, message.NewAssistant(message.Params{Content: message.Text(content)}))
	return Reply{Finished: state.Finished, Content: content, IsError: isError}, msgs
}
