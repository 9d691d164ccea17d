package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// ErrNoAnswer is returned by a Lookup that reached the service but got nothing usable.
var ErrNoAnswer = errors.New("no answer found")

// Lookup is a best-effort general knowledge service.
type Lookup interface {
	Lookup(ctx context.Context, query string) (string, error)
}

const DefaultDuckDuckGoURL = "https://api.duckduckgo.com/"

// DuckDuckGoLookup queries the DuckDuckGo instant answer API.
type DuckDuckGoLookup struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewDuckDuckGoLookup(baseURL string, requestsPerSec int) *DuckDuckGoLookup {
	if baseURL == "" {
		baseURL = DefaultDuckDuckGoURL
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &DuckDuckGoLookup{
		baseURL: baseURL,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), requestsPerSec),
	}
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	AbstractText  string     `json:"AbstractText"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

func (l *DuckDuckGoLookup) Lookup(ctx context.Context, query string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for lookup slot: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling lookup service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup service returned status %d", resp.StatusCode)
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding lookup response: %w", err)
	}

	if text := strings.TrimSpace(data.AbstractText); text != "" {
		return text, nil
	}
	if text := firstTopicText(data.RelatedTopics); text != "" {
		return text, nil
	}
	return "", ErrNoAnswer
}

// firstTopicText walks topics in order, descending into named topic groups.
func firstTopicText(topics []ddgTopic) string {
	for _, topic := range topics {
		if text := strings.TrimSpace(topic.Text); text != "" {
			return text
		}
		if text := firstTopicText(topic.Topics); text != "" {
			return text
		}
	}
	return ""
}
