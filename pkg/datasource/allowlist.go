// Copyright 2025 The chartkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datasource

import (
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// resolvedHost is the outcome of a successful allowlist resolution.
type resolvedHost struct {
	Host     string
	Protocol string // "http" or "https"
}

// hostResolver maps candidate hosts through the alias table and tests them
// against the per-protocol allowlists. Matchers are constructed lazily on
// first use and cached for the lifetime of the resolver; construction is a
// pure function of configuration, so a concurrent duplicate build is
// harmless and LoadOrStore keeps the cache single-valued.
type hostResolver struct {
	domains   map[string][]string
	domainMap map[string]string
	matchers  sync.Map // protocol tag -> *hostMatcher
}

func newHostResolver(domains map[string][]string, domainMap map[string]string) *hostResolver {
	return &hostResolver{domains: domains, domainMap: domainMap}
}

// resolve remaps an alias host and tests it against the https allowlist,
// then the http allowlist. https wins when both match.
func (r *hostResolver) resolve(host string) (resolvedHost, bool) {
	host = strings.ToLower(host)
	if mapped, ok := r.domainMap[host]; ok {
		host = strings.ToLower(mapped)
	}
	if r.allowed("https", host) {
		return resolvedHost{Host: host, Protocol: "https"}, true
	}
	if r.allowed("http", host) {
		return resolvedHost{Host: host, Protocol: "http"}, true
	}
	return resolvedHost{}, false
}

// allowed reports whether host matches the allowlist configured for the
// given protocol tag. A protocol with no configured entries never matches.
func (r *hostResolver) allowed(tag, host string) bool {
	return r.matcher(tag).match(strings.ToLower(host))
}

func (r *hostResolver) matcher(tag string) *hostMatcher {
	if v, ok := r.matchers.Load(tag); ok {
		return v.(*hostMatcher)
	}
	m := newHostMatcher(r.domains[tag])
	v, _ := r.matchers.LoadOrStore(tag, m)
	return v.(*hostMatcher)
}

// hostMatcher tests a hostname against a fixed pattern list.
type hostMatcher struct {
	patterns []string
}

func newHostMatcher(patterns []string) *hostMatcher {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	return &hostMatcher{patterns: normalized}
}

func (m *hostMatcher) match(host string) bool {
	for _, pattern := range m.patterns {
		if matchesHostPattern(host, pattern) {
			return true
		}
	}
	return false
}

// matchesHostPattern checks if a hostname matches a pattern.
// Supports:
// - Exact match: "api.example.com"
// - Suffix wildcard: "*.example.com" (matches any subdomain depth)
func matchesHostPattern(hostname, pattern string) bool {
	if strings.Contains(pattern, "*") {
		// *.example.com -> **.example.com so doublestar crosses label
		// boundaries the way a suffix wildcard is expected to
		globPattern := strings.ReplaceAll(pattern, "*", "**")
		matched, err := doublestar.Match(globPattern, hostname)
		return err == nil && matched
	}
	return hostname == pattern
}
