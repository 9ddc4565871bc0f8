package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/search-refiner/internal/httputil"
	"github.com/pdiddy/search-refiner/internal/refine"
	"github.com/pdiddy/search-refiner/internal/search"
	"github.com/pdiddy/search-refiner/internal/secrets"
	"github.com/pdiddy/search-refiner/pkg/types"
)

// flagKeys maps root command flags to the config keys they override.
var flagKeys = map[string]string{
	"endpoint":       "search.endpoint",
	"proxy-host":     "proxy.host",
	"proxy-port":     "proxy.port",
	"strategy":       "refine.strategy",
	"max-iterations": "refine.max_iterations",
}

// setDefaults registers the default value of every config key on v.
func setDefaults(v *viper.Viper) {
	v.SetDefault("search.endpoint", search.DefaultEndpoint)
	v.SetDefault("search.timeout", httputil.DefaultTimeout)
	v.SetDefault("search.user_agent", "search-refiner/"+version)
	v.SetDefault("search.requests_per_minute", 0)
	v.SetDefault("search.max_retries", 5)
	v.SetDefault("proxy.host", "")
	v.SetDefault("proxy.port", 0)
	v.SetDefault("refine.max_iterations", refine.DefaultMaxIterations)
	v.SetDefault("refine.strategy", refine.DefaultStrategy)
	v.SetDefault("log.level", "info")
	v.SetDefault("secrets.dir", secrets.DefaultDir)
}

// bindEnv makes SEARCH_REFINER_<KEY> override config keys, with dots in
// keys written as underscores (SEARCH_REFINER_PROXY_HOST for proxy.host).
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SEARCH_REFINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig reads the run configuration from v.
func loadConfig(v *viper.Viper) types.Config {
	return types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("search.timeout"),
				UserAgent: v.GetString("search.user_agent"),
			},
			Endpoint:          v.GetString("search.endpoint"),
			RequestsPerMinute: v.GetInt("search.requests_per_minute"),
			MaxRetries:        v.GetInt("search.max_retries"),
			Proxy: types.ProxyConfig{
				Host: v.GetString("proxy.host"),
				Port: v.GetInt("proxy.port"),
			},
		},
		Refine: types.RefineConfig{
			MaxIterations: v.GetInt("refine.max_iterations"),
			Strategy:      v.GetString("refine.strategy"),
		},
	}
}
