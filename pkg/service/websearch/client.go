// Package websearch provides quota-gated live grounding via a
// SerpAPI-compatible search provider.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/utils/safe"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"

	// maxContextChars bounds the prompt budget of web results
	maxContextChars = 1800
)

// Client calls a SerpAPI-compatible endpoint
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.WebSearcher = &Client{}

type Option func(*Client)

// WithBaseURL overrides the provider endpoint (used by tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse mirrors the subset of the provider response we consume
type searchResponse struct {
	SportsResults *sportsResults  `json:"sports_results"`
	AnswerBox     *answerBox      `json:"answer_box"`
	Organic       []organicResult `json:"organic_results"`
}

type sportsResults struct {
	Title         string `json:"title"`
	GameSpotlight *struct {
		Teams []struct {
			Name  string `json:"name"`
			Score string `json:"score"`
		} `json:"teams"`
		Status string `json:"status"`
		Date   string `json:"date"`
	} `json:"game_spotlight"`
}

type answerBox struct {
	Title  string `json:"title"`
	Answer string `json:"answer"`
	Result string `json:"result"`
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Search runs the query and normalizes the response to a bounded,
// prompt-ready text. An empty result set yields (nil, nil).
func (c *Client) Search(ctx context.Context, query string) (*interfaces.WebResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build search request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "search request failed")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, goerr.New("search provider returned non-200 status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search response")
	}

	return normalize(&parsed, time.Now().UTC()), nil
}

// normalize renders the response into one bounded text block, preferring
// the structured event/score shape when present.
func normalize(resp *searchResponse, now time.Time) *interfaces.WebResult {
	var b strings.Builder
	event := false

	if sr := resp.SportsResults; sr != nil && sr.GameSpotlight != nil {
		event = true
		fmt.Fprintf(&b, "%s", sr.Title)
		if sr.GameSpotlight.Status != "" {
			fmt.Fprintf(&b, " (%s)", sr.GameSpotlight.Status)
		}
		b.WriteString("\n")
		for _, team := range sr.GameSpotlight.Teams {
			fmt.Fprintf(&b, "- %s: %s\n", team.Name, team.Score)
		}
	} else {
		if ab := resp.AnswerBox; ab != nil {
			answer := ab.Answer
			if answer == "" {
				answer = ab.Result
			}
			if answer != "" {
				fmt.Fprintf(&b, "%s: %s\n", ab.Title, answer)
			}
		}
		for _, org := range resp.Organic {
			if org.Snippet == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", org.Title, org.Snippet)
		}
	}

	if b.Len() == 0 {
		return nil
	}

	text := model.TruncateRunes(b.String(), maxContextChars)

	return &interfaces.WebResult{
		Text:  fmt.Sprintf("Web results as of %s:\n%s", now.Format("2006-01-02"), text),
		Event: event,
	}
}
