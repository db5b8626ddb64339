package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sndraw/bookroom-sub000/internal/logging"
	"github.com/sndraw/bookroom-sub000/internal/metrics"
	"github.com/sndraw/bookroom-sub000/internal/tool"
)

// Failure messages surfaced to the model as tool results. The model reads
// these and may retry, pick another tool or give up.
const (
	msgToolNotFound   = "未找到匹配的工具！"
	msgToolBadArgs    = "工具 %s 参数解析失败！"
	msgToolExecFailed = "工具 %s 调用失败！"
)

// Dispatch executes a batch of tool-call requests against the registry.
// All requests run concurrently; the batch is awaited as a whole and the
// returned results follow the input order, not completion order. A failing
// call never aborts the batch: every failure mode becomes an IsError result
// correlated to the request's id. Requests without an id cannot be
// correlated and are skipped.
func Dispatch(ctx context.Context, calls []openai.ToolCall, registry *tool.Registry) []tool.Result {
	results := make([]*tool.Result, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		if call.ID == "" {
			logging.Logger.Warn().Str("module", "agent").
				Str("tool", call.Function.Name).
				Msg("skipping tool call without id")
			continue
		}
		wg.Add(1)
		go func(i int, call openai.ToolCall) {
			defer wg.Done()
			r := dispatchOne(ctx, call, registry)
			results[i] = &r
		}(i, call)
	}
	wg.Wait()

	out := make([]tool.Result, 0, len(calls))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func dispatchOne(ctx context.Context, call openai.ToolCall, registry *tool.Registry) (result tool.Result) {
	name := call.Function.Name
	metrics.ToolCallsTotal.WithLabelValues(name).Inc()
	timer := prometheus.NewTimer(metrics.ToolLatencySeconds.WithLabelValues(name))
	defer timer.ObserveDuration()

	defer func() {
		// A tool that panics is a programming error; contain it the same
		// way an execute fault is contained.
		if rec := recover(); rec != nil {
			logging.Logger.Error().Str("module", "agent").Str("tool", name).
				Interface("panic", rec).Msg("tool panicked")
			result = errorResult(name, call.ID, fmt.Sprintf(msgToolExecFailed, name))
		}
		if result.IsError {
			metrics.ToolErrorsTotal.WithLabelValues(name).Inc()
		}
	}()

	t, ok := registry.Get(name)
	if !ok {
		logging.Logger.Warn().Str("module", "agent").Str("tool", name).Msg("no matching tool")
		return errorResult(name, call.ID, msgToolNotFound)
	}

	// First point the argument string is parsed; the accumulator guarantees
	// it is complete by now.
	var args map[string]any
	if raw := call.Function.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			logging.Logger.Warn().Err(err).Str("module", "agent").Str("tool", name).
				Msg("tool call arguments are not valid JSON")
			return errorResult(name, call.ID, fmt.Sprintf(msgToolBadArgs, name))
		}
	}

	r, err := t.Execute(ctx, args)
	if err != nil {
		logging.Logger.Error().Err(err).Str("module", "agent").Str("tool", name).
			Msg("tool execution failed")
		return errorResult(name, call.ID, fmt.Sprintf(msgToolExecFailed, name))
	}
	if r.Name == "" {
		r.Name = name
	}
	r.ToolCallID = call.ID
	return r
}

func errorResult(name, callID, text string) tool.Result {
	r := tool.ErrorResult(name, "%s", text)
	r.ToolCallID = callID
	return r
}
