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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
domains:
  https:
    - "*.wikipedia.org"
    - commons.wikimedia.org
  geoshape:
    - maps.wikimedia.org
domain_map:
  wikidatasparql: query.wikidata.org
language_code: en
trusted: false
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"*.wikipedia.org", "commons.wikimedia.org"}, cfg.Domains["https"])
	assert.Equal(t, []string{"maps.wikimedia.org"}, cfg.Domains["geoshape"])
	assert.Equal(t, "query.wikidata.org", cfg.DomainMap["wikidatasparql"])
	assert.Equal(t, "en", cfg.LanguageCode)
	assert.False(t, cfg.Trusted)
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := ParseConfig([]byte(`domains: [not, a, map]`))
	assert.Error(t, err)
}

func TestParseConfigRoundTripsIntoLoader(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
domains:
  https:
    - sec.org
`))
	require.NoError(t, err)
	cfg.Transport = TransportFunc(nil)

	l, err := New(cfg)
	require.NoError(t, err)

	req, err := l.Sanitize(&Descriptor{Host: "sec.org", Path: "/d.json"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://sec.org/d.json", req.URL)
}
