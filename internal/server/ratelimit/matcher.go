package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string
	Limit  int           // requests per window
	Window time.Duration
	Burst  int           // defaults to Limit when 0
}

// DefaultEndpointConfigs returns the endpoint tiers. Oracle-backed endpoints
// are the strictest; catalog reads fall through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/recommendations/generate", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/career/analyze", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/recommendations/stream", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/transcript/", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// MatchEndpoint returns the configuration matching path and method, or nil.
// Exact paths win over prefixes; health and metrics are unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && (path == "/health" || path == "/metrics") {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
