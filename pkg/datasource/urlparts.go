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
	"net/url"
	"strings"
)

// QueryPair is one query-string entry. URLParts keeps query entries as an
// ordered slice rather than url.Values: the backend API surface expects a
// stable parameter order and re-running a sanitization must produce a
// byte-identical URL.
type QueryPair struct {
	Key   string
	Value string
}

// URLParts is the translator's output structure: everything needed to
// assemble the final request URL. Built fresh per request, never shared.
type URLParts struct {
	Protocol string // "http" or "https"
	Host     string
	Path     string
	Query    []QueryPair
}

// addQuery appends a query entry, preserving insertion order.
func (u *URLParts) addQuery(key, value string) {
	u.Query = append(u.Query, QueryPair{Key: key, Value: value})
}

// Encode returns the percent-encoded query string in insertion order.
func (u *URLParts) Encode() string {
	if len(u.Query) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range u.Query {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// String assembles the final URL. The path is used as constructed by the
// translator; every translator rule either builds it from validated tokens
// or passes it through deliberately (generic protocol only).
func (u *URLParts) String() string {
	var b strings.Builder
	b.WriteString(u.Protocol)
	b.WriteString("://")
	b.WriteString(u.Host)
	path := u.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	b.WriteString(path)
	if q := u.Encode(); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}
