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
	"net/url"
	"sort"
	"strings"
)

// Options carries per-request ambient settings.
type Options struct {
	// Domain is the fallback host when the descriptor does not name one.
	Domain string
}

// Request is the result of a successful sanitization: the concrete URL plus
// the side effects the transport layer needs. It replaces the source
// pattern of mutating a shared options object in place.
type Request struct {
	// URL is the fully assembled, percent-encoded request URL.
	URL string

	// Parts is the structured form the URL was assembled from.
	Parts URLParts

	// Protocol is the descriptor tag the request was translated under; the
	// decoder dispatches on it.
	Protocol ProtocolTag

	// AddCORSOrigin tells the transport to request anonymous CORS
	// (origin=*) when talking to wiki APIs from a browser-like context.
	AddCORSOrigin bool

	// Headers are extra request headers the transport must send.
	Headers map[string]string
}

// Sanitize validates a descriptor and rewrites it into a concrete, safe
// request. It is synchronous and performs no I/O; any validation failure
// short-circuits before a network call can happen.
func (l *Loader) Sanitize(d *Descriptor, opts Options) (*Request, error) {
	if d == nil {
		return nil, &ParameterError{Protocol: ProtocolOpen, Field: "descriptor", Missing: true}
	}

	var (
		req *Request
		err error
	)
	switch d.Protocol {
	case ProtocolOpen, ProtocolHTTP, ProtocolHTTPS:
		req, err = l.sanitizeGeneric(d, opts)
	case ProtocolWikiAPI:
		req, err = l.sanitizeWikiAPI(d, opts)
	case ProtocolWikiRest:
		req, err = l.sanitizeWikiRest(d, opts)
	case ProtocolWikiRaw:
		req, err = l.sanitizeWikiRaw(d, opts)
	case ProtocolTabular, ProtocolMap:
		req, err = l.sanitizeDataset(d, opts)
	case ProtocolWikiFile:
		req, err = l.sanitizeWikiFile(d, opts)
	case ProtocolSparql:
		req, err = l.sanitizeSparql(d)
	case ProtocolGeoShape, ProtocolGeoLine:
		req, err = l.sanitizeGeo(d)
	case ProtocolMapSnapshot:
		req, err = l.sanitizeMapSnapshot(d)
	default:
		return nil, &UnknownProtocolError{Tag: string(d.Protocol)}
	}
	if err != nil {
		return nil, err
	}

	req.Protocol = d.Protocol
	req.URL = req.Parts.String()
	return req, nil
}

// requestHost picks the descriptor host, falling back to the per-request
// default, and resolves it through the allowlists.
func (l *Loader) requestHost(tag ProtocolTag, d *Descriptor, opts Options) (resolvedHost, error) {
	host := d.Host
	if host == "" {
		host = opts.Domain
	}
	if host == "" {
		return resolvedHost{}, &ParameterError{Protocol: tag, Field: "host", Missing: true}
	}
	rh, ok := l.hosts.resolve(host)
	if !ok {
		return resolvedHost{}, &HostNotAllowedError{Protocol: tag, Host: host}
	}
	return rh, nil
}

// resolveServiceHost locates the fixed backend host for a service-backed
// protocol: the first configured allowed domain for that tag, resolved to
// its canonical protocol, then re-checked against the tag's own allowlist.
// The re-check guards against a misconfigured domain list handing out a
// host the tag never allowed.
func (l *Loader) resolveServiceHost(tag ProtocolTag) (resolvedHost, error) {
	list := l.domains[string(tag)]
	if len(list) == 0 {
		return resolvedHost{}, &ProtocolDisabledError{Protocol: tag}
	}
	rh, ok := l.hosts.resolve(list[0])
	if !ok {
		return resolvedHost{}, &HostNotAllowedError{Protocol: tag, Host: list[0]}
	}
	if !l.hosts.allowed(string(tag), rh.Host) {
		return resolvedHost{}, &HostNotAllowedError{Protocol: tag, Host: rh.Host}
	}
	return rh, nil
}

func (l *Loader) sanitizeGeneric(d *Descriptor, opts Options) (*Request, error) {
	if !l.trusted && (d.Protocol == ProtocolHTTP || d.Protocol == ProtocolHTTPS) {
		return nil, &UntrustedProtocolError{Protocol: d.Protocol}
	}
	rh, err := l.requestHost(d.Protocol, d, opts)
	if err != nil {
		return nil, err
	}
	// Caller-supplied path passes through unchanged for the generic
	// protocol; all other protocols construct the path themselves.
	return &Request{Parts: URLParts{
		Protocol: rh.Protocol,
		Host:     rh.Host,
		Path:     d.Path,
	}}, nil
}

func (l *Loader) sanitizeWikiAPI(d *Descriptor, opts Options) (*Request, error) {
	if d.Params == nil {
		return nil, &ParameterError{Protocol: d.Protocol, Field: "params", Missing: true}
	}
	rh, err := l.requestHost(d.Protocol, d, opts)
	if err != nil {
		return nil, err
	}

	parts := URLParts{Protocol: rh.Protocol, Host: rh.Host, Path: "/w/api.php"}

	// Params arrive as a Go map; insert in sorted key order so repeated
	// sanitization of the same descriptor yields an identical URL.
	keys := make([]string, 0, len(d.Params))
	for k := range d.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := d.Params[k].(type) {
		case bool:
			// true is sent as 1; false means "omit the flag entirely",
			// matching Action API boolean semantics.
			if v {
				parts.addQuery(k, "1")
			}
		case string:
			parts.addQuery(k, v)
		default:
			s, ok := numericString(v)
			if !ok {
				return nil, &ParameterError{
					Protocol: d.Protocol,
					Field:    k,
					Reason:   "parameter values must be boolean, number, or string",
				}
			}
			parts.addQuery(k, s)
		}
	}
	parts.addQuery("format", "json")
	parts.addQuery("formatversion", "2")

	return &Request{Parts: parts, AddCORSOrigin: true}, nil
}

func (l *Loader) sanitizeWikiRest(d *Descriptor, opts Options) (*Request, error) {
	if d.Path == "" {
		return nil, &ParameterError{Protocol: d.Protocol, Field: "path", Missing: true}
	}
	path := d.Path
	if strings.HasPrefix(path, "api/") {
		path = "/" + path
	}
	if !strings.HasPrefix(path, "/api/") {
		return nil, &ParameterError{Protocol: d.Protocol, Field: "path", Reason: "must begin with /api/"}
	}
	rh, err := l.requestHost(d.Protocol, d, opts)
	if err != nil {
		return nil, err
	}
	return &Request{Parts: URLParts{
		Protocol: rh.Protocol,
		Host:     rh.Host,
		Path:     path,
	}}, nil
}

func (l *Loader) sanitizeWikiRaw(d *Descriptor, opts Options) (*Request, error) {
	if err := validTitle(d.Protocol, d.Title); err != nil {
		return nil, err
	}
	rh, err := l.requestHost(d.Protocol, d, opts)
	if err != nil {
		return nil, err
	}
	parts := URLParts{Protocol: rh.Protocol, Host: rh.Host, Path: "/w/api.php"}
	parts.addQuery("action", "query")
	parts.addQuery("prop", "revisions")
	parts.addQuery("rvprop", "content")
	parts.addQuery("titles", d.Title)
	parts.addQuery("format", "json")
	parts.addQuery("formatversion", "2")
	return &Request{Parts: parts, AddCORSOrigin: true}, nil
}

func (l *Loader) sanitizeDataset(d *Descriptor, opts Options) (*Request, error) {
	title := d.Title
	if title == "" {
		title = d.Path
	}
	if err := validTitle(d.Protocol, title); err != nil {
		return nil, err
	}
	suffix := ".tab"
	if d.Protocol == ProtocolMap {
		suffix = ".map"
	}
	if !strings.HasSuffix(title, suffix) {
		return nil, &ParameterError{
			Protocol: d.Protocol,
			Field:    "title",
			Reason:   fmt.Sprintf("must end with %s", suffix),
		}
	}
	rh, err := l.requestHost(d.Protocol, d, opts)
	if err != nil {
		return nil, err
	}
	parts := URLParts{Protocol: rh.Protocol, Host: rh.Host, Path: "/w/api.php"}
	parts.addQuery("action", "jsondata")
	parts.addQuery("title", title)
	parts.addQuery("format", "json")
	parts.addQuery("formatversion", "2")
	if lang := l.datasetLang(d); lang != "" {
		parts.addQuery("uselang", lang)
	}
	return &Request{Parts: parts, AddCORSOrigin: true}, nil
}

func (l *Loader) datasetLang(d *Descriptor) string {
	if d.Lang != "" {
		return d.Lang
	}
	return l.languageCode
}

func (l *Loader) sanitizeWikiFile(d *Descriptor, opts Options) (*Request, error) {
	if err := validTitle(d.Protocol, d.Title); err != nil {
		return nil, err
	}
	rh, err := l.requestHost(d.Protocol, d, opts)
	if err != nil {
		return nil, err
	}
	parts := URLParts{
		Protocol: rh.Protocol,
		Host:     rh.Host,
		// The title was validated above; escaping keeps the pathname
		// derived entirely from constrained input.
		Path: "/wiki/Special:Redirect/file/" + url.PathEscape(d.Title),
	}
	for _, dim := range []struct {
		name  string
		value any
	}{{"width", d.Width}, {"height", d.Height}} {
		if dim.value == nil {
			continue
		}
		n, err := intField(d.Protocol, dim.name, dim.value, 0, 1<<31-1)
		if err != nil {
			return nil, err
		}
		parts.addQuery(dim.name, fmt.Sprintf("%d", n))
	}
	return &Request{Parts: parts}, nil
}

func (l *Loader) sanitizeSparql(d *Descriptor) (*Request, error) {
	if d.Query == "" {
		return nil, &ParameterError{Protocol: d.Protocol, Field: "query", Missing: true}
	}
	rh, err := l.resolveServiceHost(d.Protocol)
	if err != nil {
		return nil, err
	}
	parts := URLParts{Protocol: rh.Protocol, Host: rh.Host, Path: "/bigdata/namespace/wdq/sparql"}
	parts.addQuery("query", d.Query)
	return &Request{
		Parts:   parts,
		Headers: map[string]string{"Accept": "application/sparql-results+json"},
	}, nil
}

const maxGeoIDs = 1000

func (l *Loader) sanitizeGeo(d *Descriptor) (*Request, error) {
	hasIDs := len(d.Ids) > 0
	hasQuery := d.Query != ""
	switch {
	case !hasIDs && !hasQuery:
		return nil, &ParameterError{
			Protocol: d.Protocol,
			Field:    "ids",
			Reason:   "either ids or query must be provided",
		}
	case hasIDs && hasQuery:
		return nil, &ParameterError{
			Protocol: d.Protocol,
			Field:    "ids",
			Reason:   "ids and query are mutually exclusive",
		}
	}

	// Both geoshape and geoline ride the geoshape service allowlist.
	rh, err := l.resolveServiceHost(ProtocolGeoShape)
	if err != nil {
		return nil, err
	}

	parts := URLParts{Protocol: rh.Protocol, Host: rh.Host, Path: "/" + string(d.Protocol)}
	if hasIDs {
		if len(d.Ids) > maxGeoIDs {
			return nil, &ParameterError{
				Protocol: d.Protocol,
				Field:    "ids",
				Reason:   fmt.Sprintf("too many ids, maximum is %d", maxGeoIDs),
			}
		}
		for _, id := range d.Ids {
			if !wikidataIDPattern.MatchString(id) {
				return nil, &ParameterError{
					Protocol: d.Protocol,
					Field:    "ids",
					Reason:   fmt.Sprintf("malformed Wikidata id %q", id),
				}
			}
		}
		parts.addQuery("ids", strings.Join(d.Ids, ","))
	} else {
		parts.addQuery("query", d.Query)
	}
	return &Request{Parts: parts}, nil
}

func (l *Loader) sanitizeMapSnapshot(d *Descriptor) (*Request, error) {
	width, err := intField(d.Protocol, "width", d.Width, 1, 4096)
	if err != nil {
		return nil, err
	}
	height, err := intField(d.Protocol, "height", d.Height, 1, 4096)
	if err != nil {
		return nil, err
	}
	zoom, err := intField(d.Protocol, "zoom", d.Zoom, 0, 22)
	if err != nil {
		return nil, err
	}
	lat, err := floatField(d.Protocol, "lat", d.Lat, -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := floatField(d.Protocol, "lon", d.Lon, -180, 180)
	if err != nil {
		return nil, err
	}
	if err := nameField(d.Protocol, "style", d.Style); err != nil {
		return nil, err
	}
	if err := nameField(d.Protocol, "lang", d.Lang); err != nil {
		return nil, err
	}

	// Snapshots come from the same backend as geoshape.
	rh, err := l.resolveServiceHost(ProtocolGeoShape)
	if err != nil {
		return nil, err
	}

	style := d.Style
	if style == "" {
		style = "osm-intl"
	}
	parts := URLParts{
		Protocol: rh.Protocol,
		Host:     rh.Host,
		Path: fmt.Sprintf("/img/%s,%d,%s,%s,%dx%d@2x.png",
			style, zoom, formatFloat(lat), formatFloat(lon), width, height),
	}
	if d.Lang != "" {
		parts.addQuery("lang", d.Lang)
	}
	return &Request{Parts: parts}, nil
}
