// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/search-refiner/internal/httputil"
	"github.com/pdiddy/search-refiner/internal/secrets"
	"github.com/pdiddy/search-refiner/pkg/types"
)

// DefaultEndpoint is the Yahoo BOSS v1 web search base URL.
const DefaultEndpoint = "http://boss.yahooapis.com/ysearch/web/v1"

// XMLProvider queries a BOSS-style web search API that answers
//
//	GET <endpoint>/<keywords>?appid=<id>&format=xml&count=10
//
// with an XML result list.
type XMLProvider struct {
	Client     *http.Client
	Endpoint   string
	AppID      string
	UserAgent  string
	MaxRetries int

	limiter *rate.Limiter
}

// NewXMLProvider builds a provider from cfg, including its proxy-aware
// HTTP client and optional request rate limit.
func NewXMLProvider(cfg types.SearchConfig) *XMLProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	p := &XMLProvider{
		Client:     httputil.NewClient(cfg.HTTPConfig, cfg.Proxy),
		Endpoint:   strings.TrimRight(endpoint, "/"),
		AppID:      cfg.AppID,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.RequestsPerMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return p
}

// RequestURL returns the URL Search would fetch for keywords.
func (p *XMLProvider) RequestURL(keywords []string) string {
	params := url.Values{
		"appid":  {p.AppID},
		"format": {"xml"},
		"count":  {strconv.Itoa(types.PageSize)},
	}
	return p.Endpoint + "/" + JoinKeywords(keywords) + "?" + params.Encode()
}

// DisplayURL is RequestURL with the client ID masked, for showing to users.
func (p *XMLProvider) DisplayURL(keywords []string) string {
	return strings.Replace(p.RequestURL(keywords),
		"appid="+url.QueryEscape(p.AppID), "appid="+secrets.Mask(p.AppID), 1)
}

// Search fetches the raw XML for keywords. Every failure to obtain a 200
// response wraps ErrUnavailable; the body is returned as-is, even when empty.
func (p *XMLProvider) Search(ctx context.Context, keywords []string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: waiting for rate limit: %w", ErrUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.RequestURL(keywords), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	req.Header.Set("Accept", "application/xml")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, p.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrUnavailable, err)
	}
	return string(body), nil
}
