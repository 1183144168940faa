package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://www.google.com"

// ErrNoData means the page loaded but the weather widget was absent, which
// happens for unknown cities or when the result layout changes.
var ErrNoData = errors.New("weather data not found")

// Client scrapes the Google weather answer box for a city. There is no
// stable public API behind this; the widget node ids have been unchanged
// for years and are the same ones every screen scraper keys on.
type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{hc: hc, baseURL: defaultBaseURL}
}

func (c *Client) Current(ctx context.Context, city string) (string, error) {
	u := c.baseURL + "/search?q=weather+" + url.QueryEscape(city)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse weather page: %w", err)
	}

	sel := func(q string) string {
		return strings.TrimSpace(doc.Find(q).First().Text())
	}
	loc := sel("#wob_loc")
	when := sel("#wob_dts")
	status := sel("#wob_dc")
	temp := sel("#wob_tm")
	precip := sel("#wob_pp")
	humidity := sel("#wob_hm")
	wind := sel("#wob_ws")

	for _, v := range []string{loc, when, status, temp, precip, humidity, wind} {
		if v == "" {
			return "", ErrNoData
		}
	}

	return fmt.Sprintf("Weather in %s at %s: %s, %s°C, precipitation %s, humidity %s, wind %s.",
		loc, when, status, temp, precip, humidity, wind), nil
}
