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

import "strconv"

// BindingValueFunc types a single SPARQL binding cell ({type, value,
// datatype?}) into the value handed to the charting library. Injectable so
// embedders can plug their own Wikidata value semantics.
type BindingValueFunc func(cell map[string]any) any

// WikidataValue is the default binding typing: URIs stay strings, numeric
// and boolean literals are converted, everything else passes through as the
// literal string.
func WikidataValue(cell map[string]any) any {
	value := cell["value"]
	typ, _ := cell["type"].(string)
	if typ != "literal" && typ != "typed-literal" {
		return value
	}
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch datatype, _ := cell["datatype"].(string); datatype {
	case "http://www.w3.org/2001/XMLSchema#integer",
		"http://www.w3.org/2001/XMLSchema#decimal",
		"http://www.w3.org/2001/XMLSchema#double",
		"http://www.w3.org/2001/XMLSchema#float":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "http://www.w3.org/2001/XMLSchema#boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return value
}
