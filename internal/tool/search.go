package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SearchTool queries a SearxNG-compatible search endpoint and returns the
// top results as plain text the model can quote from.
type SearchTool struct {
	endpoint string
	client   *http.Client
	limit    int
}

func NewSearchTool(endpoint string) *SearchTool {
	return &SearchTool{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		limit:    5,
	}
}

func (t *SearchTool) Name() string { return "web_search" }

func (t *SearchTool) Description() string {
	return "Search the web for current information. Returns titles, links and snippets of the top results."
}

func (t *SearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
		},
		"required": []string{"query"},
	}
}

type searxResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return ErrorResult(t.Name(), "missing argument: query"), nil
	}

	apiURL := t.endpoint + "/search?format=json&q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", "bookroom-agent/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return ErrorResult(t.Name(), "search request failed: %v", err), nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ErrorResult(t.Name(), "search endpoint returned status %d", resp.StatusCode), nil
	}

	var parsed searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ErrorResult(t.Name(), "search response was not valid JSON: %v", err), nil
	}
	if len(parsed.Results) == 0 {
		return TextResult(t.Name(), "no results found"), nil
	}

	var b strings.Builder
	for i, r := range parsed.Results {
		if i >= t.limit {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n\n", i+1, strings.TrimSpace(r.Title), r.URL, strings.TrimSpace(r.Content))
	}
	return TextResult(t.Name(), strings.TrimSpace(b.String())), nil
}
