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
	"encoding/json"
	"fmt"
)

// ProtocolTag identifies which translation rule applies to a descriptor.
// The set is closed: descriptors carrying any other tag are rejected.
type ProtocolTag string

const (
	// ProtocolOpen is the absent/empty tag: a generic request against the
	// caller's default host, resolved through the http/https allowlists.
	ProtocolOpen ProtocolTag = ""
	// ProtocolHTTP is a raw http request (forbidden in untrusted mode).
	ProtocolHTTP ProtocolTag = "http"
	// ProtocolHTTPS is a raw https request (forbidden in untrusted mode).
	ProtocolHTTPS ProtocolTag = "https"
	// ProtocolWikiAPI is a MediaWiki Action API call.
	ProtocolWikiAPI ProtocolTag = "wikiapi"
	// ProtocolWikiRest is a MediaWiki REST API call.
	ProtocolWikiRest ProtocolTag = "wikirest"
	// ProtocolWikiRaw fetches the raw wikitext content of a page.
	ProtocolWikiRaw ProtocolTag = "wikiraw"
	// ProtocolTabular fetches a .tab dataset from the Data namespace.
	ProtocolTabular ProtocolTag = "tabular"
	// ProtocolMap fetches a .map dataset from the Data namespace.
	ProtocolMap ProtocolTag = "map"
	// ProtocolWikiFile fetches a file/image via Special:Redirect.
	ProtocolWikiFile ProtocolTag = "wikifile"
	// ProtocolSparql runs a SPARQL query against the query service.
	ProtocolSparql ProtocolTag = "wikidatasparql"
	// ProtocolGeoShape fetches polygon geometries for Wikidata items.
	ProtocolGeoShape ProtocolTag = "geoshape"
	// ProtocolGeoLine fetches line geometries for Wikidata items.
	ProtocolGeoLine ProtocolTag = "geoline"
	// ProtocolMapSnapshot fetches a static map tile snapshot image.
	ProtocolMapSnapshot ProtocolTag = "mapsnapshot"
)

// String returns the display name used in error messages.
func (t ProtocolTag) String() string {
	if t == ProtocolOpen {
		return "open"
	}
	return string(t)
}

// Descriptor is an immutable request intent supplied by a (possibly
// untrusted) visualization specification. Numeric fields are loosely typed
// because descriptors arrive from arbitrary JSON and validation must report
// malformed values distinctly from out-of-range ones.
//
// Only the fields relevant to the descriptor's protocol are consulted; the
// rest are ignored.
type Descriptor struct {
	Protocol ProtocolTag `json:"protocol,omitempty"`

	// Host is the target host for generic requests. Service-backed
	// protocols ignore it.
	Host string `json:"host,omitempty"`

	// Path is the request path for generic and wikirest requests.
	Path string `json:"path,omitempty"`

	// Title is the page, dataset, or file title for wiki-backed protocols.
	Title string `json:"title,omitempty"`

	// Params holds the literal query parameters of a wikiapi call.
	Params map[string]any `json:"params,omitempty"`

	// Query is the SPARQL text for wikidatasparql, or the item query for
	// geoshape/geoline.
	Query string `json:"query,omitempty"`

	// Ids lists Wikidata item ids for geoshape/geoline. A bare string is
	// accepted as a single-element list.
	Ids StringList `json:"ids,omitempty"`

	Width  any `json:"width,omitempty"`
	Height any `json:"height,omitempty"`
	Zoom   any `json:"zoom,omitempty"`
	Lat    any `json:"lat,omitempty"`
	Lon    any `json:"lon,omitempty"`

	Style string `json:"style,omitempty"`
	Lang  string `json:"lang,omitempty"`
}

// StringList unmarshals from either a JSON string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("ids must be a string or an array of strings")
	}
	*s = StringList(list)
	return nil
}
