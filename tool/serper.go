package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/agentforge/core"
)

const serperBaseURL = "https://google.serper.dev"

// SerperClient is a minimal client for the Serper search API. One client is
// shared by all web-information tools; it is safe for concurrent use.
type SerperClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// SerperClientOptions configure the Serper client.
type SerperClientOptions struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewSerperClient creates a Serper API client.
func NewSerperClient(apiKey string, optFns ...func(o *SerperClientOptions)) *SerperClient {
	opts := SerperClientOptions{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    serperBaseURL,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &SerperClient{
		httpClient: opts.HTTPClient,
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
	}
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic,omitempty"`
	News    []serperResult `json:"news,omitempty"`
	Answer  *struct {
		Answer string `json:"answer"`
	} `json:"answerBox,omitempty"`
}

// Query posts a search query to the given Serper endpoint (search, scholar,
// news) and renders the top results into a text block for model consumption.
func (c *SerperClient) Query(toolCtx *core.ToolContext, endpoint, query string) (string, error) {
	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		toolCtx.Context(),
		http.MethodPost,
		fmt.Sprintf("%s/%s", c.baseURL, endpoint),
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("serper returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode serper response: %w", err)
	}

	return formatSerperResults(parsed), nil
}

// formatSerperResults renders results into a compact text block. An answer
// box, when present, leads the block.
func formatSerperResults(resp serperResponse) string {
	var sb strings.Builder

	if resp.Answer != nil && resp.Answer.Answer != "" {
		sb.WriteString(resp.Answer.Answer)
		sb.WriteString("\n\n")
	}

	results := resp.Organic
	if len(results) == 0 {
		results = resp.News
	}

	for i, r := range results {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&sb, "%s\n%s\n", r.Title, r.Snippet)
		if r.Link != "" {
			fmt.Fprintf(&sb, "%s\n", r.Link)
		}
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "No results found."
	}
	return strings.TrimSpace(sb.String())
}

func queryOnlySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The user's question or search query.",
			},
		},
		"required": []string{"query"},
	}
}

func queryArg(args map[string]any) string {
	q, _ := args["query"].(string)
	return q
}

// NewWebSearchTool uses web search to gather information from the internet.
func NewWebSearchTool(client *SerperClient) *FunctionTool {
	return NewFunctionTool(
		"google_search",
		"Uses Google Search to gather information from the internet.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return client.Query(toolCtx, "search", queryArg(args))
		},
	)
}

// NewScholarSearchTool answers complex technical questions via scholarly articles.
func NewScholarSearchTool(client *SerperClient) *FunctionTool {
	return NewFunctionTool(
		"google_scholar",
		"Uses Google Scholar to answer complex technical questions.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return client.Query(toolCtx, "scholar", queryArg(args))
		},
	)
}

// NewTrendsSearchTool surfaces trending search results and news.
func NewTrendsSearchTool(client *SerperClient) *FunctionTool {
	return NewFunctionTool(
		"google_trends",
		"Uses Google Trends to get information on trending search results and news.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return client.Query(toolCtx, "news", queryArg(args))
		},
	)
}

// NewFinanceSearchTool surfaces information from finance pages.
func NewFinanceSearchTool(client *SerperClient) *FunctionTool {
	return NewFunctionTool(
		"google_finance",
		"Uses Google Finance to get information from the Google Finance page.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			q, _ := args["query"].(string)
			return client.Query(toolCtx, "search", q+" site:google.com/finance")
		},
	)
}
