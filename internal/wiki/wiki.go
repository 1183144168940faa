package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

var ErrNotFound = errors.New("no such article")

// Client fetches article summaries from the Wikipedia REST API and trims
// them to a couple of sentences, which is about as much as anyone wants
// read aloud.
type Client struct {
	hc        *http.Client
	baseURL   string
	sentences int
}

func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{hc: hc, baseURL: defaultBaseURL, sentences: 2}
}

func (c *Client) Summary(ctx context.Context, topic string) (string, error) {
	u := fmt.Sprintf("%s/page/summary/%s", c.baseURL, url.PathEscape(topic))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "leo-assistant/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	var payload struct {
		Type    string `json:"type"`
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode summary: %w", err)
	}
	if strings.Contains(payload.Type, "not_found") || payload.Extract == "" {
		return "", ErrNotFound
	}
	return firstSentences(payload.Extract, c.sentences), nil
}

// firstSentences cuts text after n sentence terminators. Plain heuristic;
// abbreviations may end a "sentence" early, which is fine for speech.
func firstSentences(text string, n int) string {
	if n <= 0 {
		return text
	}
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next, size := utf8.DecodeRuneInString(text[i+1:])
		if size == 0 || next == ' ' || next == '\n' {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return strings.TrimSpace(text)
}
