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
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide construction configuration for a Loader. It is
// immutable for the lifetime of one Loader instance.
type Config struct {
	// Domains maps a protocol tag ("http", "https", "geoshape",
	// "wikidatasparql", ...) to its ordered list of allowed domain
	// patterns. A pattern is an exact host or a suffix wildcard like
	// "*.wikipedia.org". Service-backed protocols use the first entry of
	// their list as the fixed backend host.
	Domains map[string][]string `yaml:"domains"`

	// DomainMap remaps alias hosts to their canonical form before
	// allowlist checks.
	DomainMap map[string]string `yaml:"domain_map"`

	// LanguageCode is the default language for protocols that support one
	// (the uselang parameter of dataset fetches).
	LanguageCode string `yaml:"language_code"`

	// Trusted gates raw http/https passthrough. Untrusted specifications
	// may only use the structured protocols.
	Trusted bool `yaml:"trusted"`

	// Logger receives decoder warnings. Defaults to a JSON logger
	// configured from the environment.
	Logger *slog.Logger `yaml:"-"`

	// Transport performs the single network fetch per request. Defaults
	// to an HTTP transport with secure client defaults.
	Transport Transport `yaml:"-"`

	// BindingValue types SPARQL binding cells. Defaults to WikidataValue.
	BindingValue BindingValueFunc `yaml:"-"`
}

// ParseConfig reads a Config from YAML. Injected collaborators (logger,
// transport, binding typing) are set programmatically after parsing.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse datasource config: %w", err)
	}
	return cfg, nil
}
