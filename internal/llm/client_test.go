package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sndraw/bookroom-sub000/internal/message"
)

func TestToOpenAIFlattensRoles(t *testing.T) {
	msgs := []message.Message{
		message.NewSystem(message.Params{Content: message.Text("sys")}),
		message.NewUser(message.Params{Content: message.Text("question")}),
		message.NewAssistant(message.Params{ToolCalls: []openai.ToolCall{{ID: "c1"}}}),
		message.NewTool(message.Params{Name: "search", ToolCallID: "c1", Content: message.Parts(message.TextPart("res"))}),
	}

	out := toOpenAI(msgs)
	if len(out) != 4 {
		t.Fatalf("expected 4 wire messages, got %d", len(out))
	}
	if out[0].Role != "system" || out[0].Content != "sys" {
		t.Fatalf("system mapping: %+v", out[0])
	}
	if len(out[2].ToolCalls) != 1 || out[2].ToolCalls[0].ID != "c1" {
		t.Fatalf("assistant tool calls lost: %+v", out[2])
	}
	if out[3].Role != "tool" || out[3].ToolCallID != "c1" || out[3].Content != "res" {
		t.Fatalf("tool message mapping: %+v", out[3])
	}
}

func TestToOpenAIUserMultiContent(t *testing.T) {
	msgs := []message.Message{
		message.NewUser(message.Params{Content: message.Parts(
			message.TextPart("look at this"),
			message.ImagePart("https://example.com/x.png"),
			message.Part{Type: message.PartFile, URL: "https://example.com/doc.pdf"},
		)}),
	}

	out := toOpenAI(msgs)
	parts := out[0].MultiContent
	if out[0].Content != "" || len(parts) != 3 {
		t.Fatalf("expected multi-part user content: %+v", out[0])
	}
	if parts[0].Type != openai.ChatMessagePartTypeText || parts[0].Text != "look at this" {
		t.Fatalf("text part mapping: %+v", parts[0])
	}
	if parts[1].Type != openai.ChatMessagePartTypeImageURL || parts[1].ImageURL.URL != "https://example.com/x.png" {
		t.Fatalf("image part mapping: %+v", parts[1])
	}
	if parts[2].Type != openai.ChatMessagePartTypeText || parts[2].Text != "https://example.com/doc.pdf" {
		t.Fatalf("file part should degrade to its URL: %+v", parts[2])
	}
}

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.ToolChoice != "auto" {
			t.Errorf("tool_choice must be auto, got %v", req.ToolChoice)
		}
		if len(req.Tools) != 0 {
			t.Errorf("unexpected tools: %v", req.Tools)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices":[{"message":{"role":"assistant","content":"hello",
				"tool_calls":[{"id":"c1","type":"function","function":{"name":"search","arguments":"{}"}}]}}],
			"usage":{"prompt_tokens":10,"completion_tokens":2}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/v1", APIKey: "test", Model: "test-model"})
	turn, err := c.Complete(context.Background(), Request{
		Messages: []message.Message{message.NewUser(message.Params{Content: message.Text("hi")})},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if turn.Content != "hello" {
		t.Fatalf("content: %q", turn.Content)
	}
	if len(turn.ToolCalls) != 1 || turn.ToolCalls[0].ID != "c1" {
		t.Fatalf("tool calls: %+v", turn.ToolCalls)
	}
}

func TestClientCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/v1", APIKey: "test", Model: "test-model"})
	_, err := c.Complete(context.Background(), Request{})
	if err != ErrNoChoices {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestClientStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(
			`data: {"choices":[{"delta":{"content":"he"}}]}` + "\n\n" +
				`data: {"choices":[{"delta":{"content":"llo","tool_calls":[{"index":0,"id":"c1","function":{"name":"search","arguments":"{"}}]}}]}` + "\n\n" +
				`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"}"}}]}}]}` + "\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/v1", APIKey: "test", Model: "test-model"})
	s, err := c.Stream(context.Background(), Request{})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer s.Close()

	var content string
	var acc Accumulator
	for {
		chunk, err := s.Recv()
		if err != nil {
			break
		}
		content += chunk.Content
		acc.Add(chunk.ToolCalls)
	}
	if content != "hello" {
		t.Fatalf("streamed content: %q", content)
	}
	calls := acc.Calls()
	if len(calls) != 1 || calls[0].Function.Arguments != "{}" {
		t.Fatalf("accumulated calls: %+v", calls)
	}
}
