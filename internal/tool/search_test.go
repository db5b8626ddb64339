package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchToolFormatsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"Go","url":"https://go.dev","content":"The Go programming language"},
			{"title":"Gopher","url":"https://go.dev/blog","content":"Blog"}
		]}`))
	}))
	defer srv.Close()

	st := NewSearchTool(srv.URL)
	res, err := st.Execute(context.Background(), map[string]any{"query": "golang"})
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	text := res.Content.String()
	if !strings.Contains(text, "Go") || !strings.Contains(text, "https://go.dev") {
		t.Fatalf("results missing from content: %q", text)
	}
}

func TestSearchToolBusinessFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	st := NewSearchTool(srv.URL)

	res, err := st.Execute(context.Background(), map[string]any{"query": "x"})
	if err != nil {
		t.Fatalf("upstream failure must not be a fault: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}

	res, err = st.Execute(context.Background(), map[string]any{})
	if err != nil || !res.IsError {
		t.Fatalf("missing query must be an error result: res=%+v err=%v", res, err)
	}
}

func TestSearchToolEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	res, err := NewSearchTool(srv.URL).Execute(context.Background(), map[string]any{"query": "nothing"})
	if err != nil || res.IsError {
		t.Fatalf("empty results are not an error: res=%+v err=%v", res, err)
	}
	if res.Content.String() != "no results found" {
		t.Fatalf("unexpected content: %q", res.Content.String())
	}
}

func TestWeatherTool(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Shanghai" {
			t.Errorf("unexpected location %q", got)
		}
		w.Write([]byte(`{"results":[{"name":"Shanghai","country":"China","latitude":31.22,"longitude":121.46}]}`))
	}))
	defer geo.Close()
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_weather":{"temperature":21.5,"windspeed":8.2,"weathercode":3}}`))
	}))
	defer forecast.Close()

	wt := NewWeatherTool()
	wt.geocodeBase = geo.URL
	wt.forecastBase = forecast.URL

	res, err := wt.Execute(context.Background(), map[string]any{"location": "Shanghai"})
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	text := res.Content.String()
	if !strings.Contains(text, "Shanghai") || !strings.Contains(text, "21.5") {
		t.Fatalf("weather summary incomplete: %q", text)
	}
}

func TestWeatherToolUnknownLocation(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer geo.Close()

	wt := NewWeatherTool()
	wt.geocodeBase = geo.URL

	res, err := wt.Execute(context.Background(), map[string]any{"location": "Nowhereville"})
	if err != nil || !res.IsError {
		t.Fatalf("unknown location must be an error result: res=%+v err=%v", res, err)
	}
}

func TestArxivToolParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1234</id>
    <title> Sample Paper </title>
    <summary> About things. </summary>
    <author><name>Jane Doe</name></author>
    <author><name>John Roe</name></author>
  </entry>
</feed>`))
	}))
	defer srv.Close()

	at := NewArxivTool()
	at.endpoint = srv.URL

	res, err := at.Execute(context.Background(), map[string]any{"query": "llm"})
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	text := res.Content.String()
	for _, want := range []string{"Sample Paper", "Jane Doe, John Roe", "http://arxiv.org/abs/1234"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in %q", want, text)
		}
	}
}
