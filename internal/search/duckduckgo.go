// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// ddgLiteURL is the DuckDuckGo HTML lite endpoint. Package-level var for
// test substitution.
var ddgLiteURL = "https://lite.duckduckgo.com/lite/"

// DuckDuckGo scrapes the DuckDuckGo lite results page. It needs no API key.
type DuckDuckGo struct {
	UserAgent string
	Client    *http.Client
}

// NewDuckDuckGo returns a DuckDuckGo backend.
func NewDuckDuckGo(userAgent string, client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{UserAgent: userAgent, Client: client}
}

// Name returns the backend identifier.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search submits query to the lite page and returns the first maxResults
// hits in page order.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ddgLiteURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	resp, err := httputil.Do(ctx, d.Client, req)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo page: %w", err)
	}
	return parseLiteResults(doc, maxResults), nil
}

// parseLiteResults reads each result link and the snippet cell from the
// rows that follow it, up to the next result link. A result without a
// snippet row gets empty content.
func parseLiteResults(doc *goquery.Document, maxResults int) []types.SearchResult {
	results := []types.SearchResult{}
	doc.Find("a.result-link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if maxResults > 0 && len(results) >= maxResults {
			return false
		}
		href, _ := s.Attr("href")
		results = append(results, types.SearchResult{
			Title:   collapseSpace(s.Text()),
			URL:     resolveRedirect(href),
			Content: snippetFor(s),
		})
		return true
	})
	return results
}

// snippetFor returns the snippet text belonging to the result link.
func snippetFor(link *goquery.Selection) string {
	for row := link.Closest("tr").Next(); row.Length() > 0; row = row.Next() {
		if row.Find("a.result-link").Length() > 0 {
			break
		}
		if snip := row.Find("td.result-snippet"); snip.Length() > 0 {
			return collapseSpace(snip.First().Text())
		}
	}
	return ""
}

// resolveRedirect unwraps DuckDuckGo's "/l/?uddg=<target>" redirect links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
