package tool

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sndraw/bookroom-sub000/internal/message"
)

// ArxivTool fetches recent arXiv papers on a topic via the public Atom API.
type ArxivTool struct {
	endpoint string
	client   *http.Client
}

func NewArxivTool() *ArxivTool {
	return &ArxivTool{
		endpoint: "http://export.arxiv.org/api/query",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type arxivFeed struct {
	Entries []struct {
		Title   string `xml:"title"`
		Authors []struct {
			Name string `xml:"name"`
		} `xml:"author"`
		Summary string `xml:"summary"`
		ID      string `xml:"id"`
	} `xml:"entry"`
}

func (t *ArxivTool) Name() string { return "fetch_arxiv" }

func (t *ArxivTool) Description() string {
	return "Fetch recent arXiv papers on a given topic."
}

func (t *ArxivTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Topic or keywords to search papers for",
			},
		},
		"required": []string{"query"},
	}
}

func (t *ArxivTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return ErrorResult(t.Name(), "missing argument: query"), nil
	}

	apiURL := t.endpoint + "?search_query=" + url.QueryEscape(query) +
		"&start=0&max_results=5&sortBy=submittedDate&sortOrder=descending"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", "bookroom-agent/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return ErrorResult(t.Name(), "arxiv request failed: %v", err), nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrorResult(t.Name(), "reading arxiv response failed: %v", err), nil
	}
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return ErrorResult(t.Name(), "arxiv response was not a valid feed: %v", err), nil
	}

	papers := make([]map[string]string, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		authors := make([]string, 0, len(entry.Authors))
		for _, a := range entry.Authors {
			authors = append(authors, a.Name)
		}
		papers = append(papers, map[string]string{
			"title":   strings.TrimSpace(entry.Title),
			"authors": strings.Join(authors, ", "),
			"summary": strings.TrimSpace(entry.Summary),
			"url":     entry.ID,
		})
	}
	encoded, err := json.Marshal(papers)
	if err != nil {
		return Result{}, err
	}
	return Result{Name: t.Name(), Content: message.Text(string(encoded))}, nil
}
