package tool

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/agentforge/core"
)

// Industry-specific tools. Each wraps a public, keyless HTTP API so the
// vertical tool works without extra credentials.

const (
	yahooFinanceSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"
	pubmedBaseURL         = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
)

var industryHTTPClient = &http.Client{Timeout: 30 * time.Second}

// NewFinanceNewsTool returns the finance industry tool: recent financial
// market news for a company or ticker, via the Yahoo Finance search API.
func NewFinanceNewsTool() *FunctionTool {
	return NewFunctionTool(
		"yahoo_finance_news",
		"Uses Yahoo Finance to get real-time news and information on financial markets.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return fetchFinanceNews(toolCtx, queryArg(args))
		},
	)
}

type yahooNewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
}

type yahooSearchResponse struct {
	News []yahooNewsItem `json:"news"`
}

func fetchFinanceNews(toolCtx *core.ToolContext, query string) (string, error) {
	u := fmt.Sprintf("%s?q=%s&newsCount=8&quotesCount=0", yahooFinanceSearchURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(toolCtx.Context(), http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := industryHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("yahoo finance request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yahoo finance returned status %d", resp.StatusCode)
	}

	var parsed yahooSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode yahoo finance response: %w", err)
	}

	if len(parsed.News) == 0 {
		return "No recent financial news found.", nil
	}

	var sb strings.Builder
	for _, item := range parsed.News {
		fmt.Fprintf(&sb, "%s (%s)\n%s\n\n", item.Title, item.Publisher, item.Link)
	}
	return strings.TrimSpace(sb.String()), nil
}

// NewMedicalPublicationsTool returns the healthcare industry tool: searches
// medical publications and journals through the PubMed E-utilities API.
func NewMedicalPublicationsTool() *FunctionTool {
	return NewFunctionTool(
		"medical_publications",
		"Use this tool if the user asks very complicated medical questions that can only be "+
			"answered by searching through medical publications and journals.",
		queryOnlySchema(),
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return fetchMedicalPublications(toolCtx, queryArg(args))
		},
	)
}

type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedSummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type pubmedArticle struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	PubDate string `json:"pubdate"`
}

func fetchMedicalPublications(toolCtx *core.ToolContext, query string) (string, error) {
	searchURL := fmt.Sprintf(
		"%s/esearch.fcgi?db=pubmed&retmode=json&retmax=5&term=%s",
		pubmedBaseURL, url.QueryEscape(query),
	)

	var search pubmedSearchResponse
	if err := getJSON(toolCtx, searchURL, &search); err != nil {
		return "", fmt.Errorf("pubmed search failed: %w", err)
	}

	ids := search.ESearchResult.IDList
	if len(ids) == 0 {
		return "No matching medical publications found.", nil
	}

	summaryURL := fmt.Sprintf(
		"%s/esummary.fcgi?db=pubmed&retmode=json&id=%s",
		pubmedBaseURL, strings.Join(ids, ","),
	)

	var summary pubmedSummaryResponse
	if err := getJSON(toolCtx, summaryURL, &summary); err != nil {
		return "", fmt.Errorf("pubmed summary failed: %w", err)
	}

	var sb strings.Builder
	for _, id := range ids {
		raw, ok := summary.Result[id]
		if !ok {
			continue
		}
		var article pubmedArticle
		if err := json.Unmarshal(raw, &article); err != nil {
			continue
		}
		fmt.Fprintf(&sb, "%s. %s (%s). PMID: %s\n\n", article.Title, article.Source, article.PubDate, id)
	}

	if sb.Len() == 0 {
		return "No matching medical publications found.", nil
	}
	return strings.TrimSpace(sb.String()), nil
}

func getJSON(toolCtx *core.ToolContext, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(toolCtx.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := industryHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
