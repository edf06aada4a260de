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

import "encoding/json"

// unmarshalJSON parses a response body, attributing parse failures to the
// protocol being decoded.
func unmarshalJSON(tag ProtocolTag, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &MalformedResultError{Protocol: tag, Reason: "invalid JSON", Cause: err}
	}
	return nil
}

// TabularData is the normalized shape of a .tab dataset response.
type TabularData struct {
	Meta   []map[string]any `json:"meta"`
	Fields []string         `json:"fields"`
	Data   []map[string]any `json:"data"`
}

// MapData is the normalized shape of a .map dataset response.
type MapData struct {
	Meta []map[string]any `json:"meta"`
	Data any              `json:"data"`
}

// Decode post-processes a raw response body according to the protocol the
// request was translated under. Protocols without a wrapped envelope return
// the body unchanged for the charting library to interpret.
func (l *Loader) Decode(tag ProtocolTag, body []byte) (any, error) {
	switch tag {
	case ProtocolWikiAPI:
		return l.decodeEnvelope(tag, body)
	case ProtocolWikiRaw:
		return l.decodeRawPage(body)
	case ProtocolSparql:
		return l.decodeSparql(body)
	case ProtocolTabular:
		return l.decodeTabular(body)
	case ProtocolMap:
		return l.decodeMapData(body)
	default:
		return body, nil
	}
}

// decodeEnvelope parses a wiki API response and enforces its error
// contract: an error field is fatal, warnings are logged and ignored.
func (l *Loader) decodeEnvelope(tag ProtocolTag, body []byte) (map[string]any, error) {
	var env map[string]any
	if err := unmarshalJSON(tag, body, &env); err != nil {
		return nil, err
	}
	if errPayload, ok := env["error"]; ok {
		return nil, &APIError{Protocol: tag, Payload: errPayload}
	}
	if warnings, ok := env["warnings"]; ok {
		l.logger.Warn("api response carried warnings",
			"protocol", tag.String(),
			"warnings", warnings,
		)
	}
	return env, nil
}

// decodeRawPage descends query.pages[0].revisions[0].content of a revisions
// query. Any missing link in the chain means the page or revision does not
// exist.
func (l *Loader) decodeRawPage(body []byte) (any, error) {
	env, err := l.decodeEnvelope(ProtocolWikiRaw, body)
	if err != nil {
		return nil, err
	}
	fail := func(missing string) (any, error) {
		return nil, &ContentUnavailableError{Protocol: ProtocolWikiRaw, Missing: missing}
	}

	query, ok := env["query"].(map[string]any)
	if !ok {
		return fail("query")
	}
	pages, ok := query["pages"].([]any)
	if !ok || len(pages) == 0 {
		return fail("query.pages")
	}
	page, ok := pages[0].(map[string]any)
	if !ok {
		return fail("query.pages[0]")
	}
	revisions, ok := page["revisions"].([]any)
	if !ok || len(revisions) == 0 {
		return fail("query.pages[0].revisions")
	}
	revision, ok := revisions[0].(map[string]any)
	if !ok {
		return fail("query.pages[0].revisions[0]")
	}
	content, ok := revision["content"]
	if !ok {
		return fail("query.pages[0].revisions[0].content")
	}
	return content, nil
}

// decodeSparql reshapes a SPARQL JSON result into one record per binding
// row, typing each cell through the configured binding value function.
func (l *Loader) decodeSparql(body []byte) (any, error) {
	var res map[string]any
	if err := unmarshalJSON(ProtocolSparql, body, &res); err != nil {
		return nil, err
	}
	results, ok := res["results"].(map[string]any)
	if !ok {
		return nil, &MalformedResultError{Protocol: ProtocolSparql, Reason: "missing results"}
	}
	bindings, ok := results["bindings"].([]any)
	if !ok {
		return nil, &MalformedResultError{Protocol: ProtocolSparql, Reason: "missing results.bindings"}
	}

	rows := make([]map[string]any, 0, len(bindings))
	for _, b := range bindings {
		binding, ok := b.(map[string]any)
		if !ok {
			return nil, &MalformedResultError{Protocol: ProtocolSparql, Reason: "binding row is not an object"}
		}
		row := make(map[string]any, len(binding))
		for name, cell := range binding {
			cellMap, ok := cell.(map[string]any)
			if !ok {
				return nil, &MalformedResultError{Protocol: ProtocolSparql, Reason: "binding cell is not an object"}
			}
			row[name] = l.bindingValue(cellMap)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeTabular reshapes a jsondata .tab envelope into meta/fields/data.
func (l *Loader) decodeTabular(body []byte) (any, error) {
	env, err := l.decodeEnvelope(ProtocolTabular, body)
	if err != nil {
		return nil, err
	}
	jd, ok := env["jsondata"].(map[string]any)
	if !ok {
		return nil, &ContentUnavailableError{Protocol: ProtocolTabular, Missing: "jsondata"}
	}

	fields := fieldNames(jd)
	rows, _ := jd["data"].([]any)
	data := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		values, _ := r.([]any)
		record := make(map[string]any, len(fields))
		for i, name := range fields {
			if i < len(values) {
				// Explicit nulls stay present in the record.
				record[name] = values[i]
			}
		}
		data = append(data, record)
	}

	return &TabularData{
		Meta:   []map[string]any{datasetMeta(jd)},
		Fields: fields,
		Data:   data,
	}, nil
}

// decodeMapData reshapes a jsondata .map envelope; the geometry payload
// passes through untouched.
func (l *Loader) decodeMapData(body []byte) (any, error) {
	env, err := l.decodeEnvelope(ProtocolMap, body)
	if err != nil {
		return nil, err
	}
	jd, ok := env["jsondata"].(map[string]any)
	if !ok {
		return nil, &ContentUnavailableError{Protocol: ProtocolMap, Missing: "jsondata"}
	}

	meta := datasetMeta(jd)
	for _, key := range []string{"zoom", "latitude", "longitude"} {
		if v, ok := jd[key]; ok {
			meta[key] = v
		}
	}
	return &MapData{
		Meta: []map[string]any{meta},
		Data: jd["data"],
	}, nil
}

// fieldNames extracts the ordered column names from schema.fields.
func fieldNames(jd map[string]any) []string {
	schema, _ := jd["schema"].(map[string]any)
	raw, _ := schema["fields"].([]any)
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fm, _ := f.(map[string]any)
		name, _ := fm["name"].(string)
		fields = append(fields, name)
	}
	return fields
}

// datasetMeta collects the dataset description and licensing fields. The
// license arrives as a nested object on the wire; it is flattened to the
// license_* keys chart consumers expect.
func datasetMeta(jd map[string]any) map[string]any {
	meta := map[string]any{
		"description":  jd["description"],
		"license_code": nil,
		"license_text": nil,
		"license_url":  nil,
		"sources":      jd["sources"],
	}
	if license, ok := jd["license"].(map[string]any); ok {
		meta["license_code"] = license["code"]
		meta["license_text"] = license["text"]
		meta["license_url"] = license["url"]
	}
	return meta
}
