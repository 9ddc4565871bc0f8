package types

import (
	"net"
	"strconv"
	"time"
)

// HTTPConfig holds shared HTTP settings used by network providers.
type HTTPConfig struct {
	// Timeout bounds connect plus read for a single request. Zero means the
	// provider default (30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "search-refiner/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProxyConfig names an optional forward proxy. The zero value means
// requests go direct.
type ProxyConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Enabled reports whether a proxy host is configured.
func (p ProxyConfig) Enabled() bool {
	return p.Host != ""
}

// Addr returns the proxy as host:port. A missing port defaults to 8080,
// the conventional HTTP proxy port.
func (p ProxyConfig) Addr() string {
	port := p.Port
	if port <= 0 {
		port = 8080
	}
	return net.JoinHostPort(p.Host, strconv.Itoa(port))
}

// SearchConfig holds settings for the XML search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the provider base URL; keywords are appended as a path segment.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// AppID is the provider client ID sent as the appid query parameter.
	AppID string `json:"-" yaml:"-"`

	// RequestsPerMinute caps outgoing requests. Zero disables the limit.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	Proxy ProxyConfig `json:"proxy" yaml:"proxy"`
}

// RefineConfig holds settings for the refinement loop.
type RefineConfig struct {
	// MaxIterations bounds the number of search rounds (default 10).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Strategy selects the query refiner: expand, drop, prompt, or a comma
	// separated chain such as "expand,drop".
	Strategy string `json:"strategy" yaml:"strategy"`
}

// Config groups all settings for a run.
type Config struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Refine RefineConfig `json:"refine" yaml:"refine"`
}
