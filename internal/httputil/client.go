// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/search-refiner/pkg/types"
)

// DefaultTimeout applies when HTTPConfig.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// NewClient returns an HTTP client with the configured timeout. When proxy
// is enabled every request goes through http://host:port; otherwise the
// client connects directly and ignores HTTP_PROXY style variables, so the
// proxy switch lives in one place.
func NewClient(cfg types.HTTPConfig, proxy types.ProxyConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if proxy.Enabled() {
		transport.Proxy = http.ProxyURL(&url.URL{Scheme: "http", Host: proxy.Addr()})
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
