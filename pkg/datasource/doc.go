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

// Package datasource sits between a charting library's data-loading hook
// and the network. Given a declarative data source descriptor embedded in
// an (often untrusted) visualization specification, it decides whether the
// requested resource may be fetched, rewrites it into a concrete safe URL,
// performs the fetch through a configurable transport, and reshapes the
// raw response into the structure the charting library expects.
//
// The package is a security boundary: arbitrary third-party specifications
// must never reach attacker-chosen hosts or local files. Every protocol
// variant carries its own validation rules, host allowlisting, and URL
// construction; a resolved host always passes the allowlist check for its
// resolved protocol before any URL is produced, and https is preferred over
// http whenever both match.
//
// # Usage
//
//	loader, err := datasource.New(datasource.Config{
//	    Domains: map[string][]string{
//	        "https":    {"*.wikipedia.org", "commons.wikimedia.org"},
//	        "geoshape": {"maps.wikimedia.org"},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := loader.Load(ctx, &datasource.Descriptor{
//	    Protocol: datasource.ProtocolTabular,
//	    Title:    "Example.tab",
//	}, datasource.Options{Domain: "en.wikipedia.org"})
//
// Sanitize, Fetch, and Decode are also exposed individually for embedders
// that own the transport step themselves. The pipeline performs no caching,
// retrying, rate limiting, or authentication; it is a pure
// validate → transform → single fetch → decode sequence, invoked once per
// requested resource.
package datasource
