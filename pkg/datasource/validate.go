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
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	namePattern  = regexp.MustCompile(`^[-_0-9a-zA-Z]+$`)
	// Wikidata item ids: Q followed by up to 16 digits, no leading zero.
	wikidataIDPattern = regexp.MustCompile(`^Q[1-9][0-9]{0,15}$`)
)

// numericString renders a loosely typed descriptor value for pattern
// matching. JSON numbers arrive as float64; programmatic callers may supply
// ints or strings.
func numericString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// intField validates a required integer field. A value that does not even
// look like an integer is a pattern error; one that does but falls outside
// [min, max] is a range error. Both name the field and protocol.
func intField(tag ProtocolTag, field string, v any, min, max int) (int, error) {
	if v == nil {
		return 0, &ParameterError{Protocol: tag, Field: field, Missing: true}
	}
	s, ok := numericString(v)
	if !ok || !intPattern.MatchString(s) {
		return 0, &ParameterError{Protocol: tag, Field: field, Reason: "must be an integer"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParameterError{Protocol: tag, Field: field, Reason: "must be an integer"}
	}
	if n < min || n > max {
		return 0, &ParameterError{
			Protocol: tag,
			Field:    field,
			Reason:   fmt.Sprintf("must be between %d and %d, got %d", min, max, n),
		}
	}
	return n, nil
}

// floatField validates a required signed-decimal field with the same
// pattern-then-range discipline as intField.
func floatField(tag ProtocolTag, field string, v any, min, max float64) (float64, error) {
	if v == nil {
		return 0, &ParameterError{Protocol: tag, Field: field, Missing: true}
	}
	s, ok := numericString(v)
	if !ok || !floatPattern.MatchString(s) {
		return 0, &ParameterError{Protocol: tag, Field: field, Reason: "must be a decimal number"}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParameterError{Protocol: tag, Field: field, Reason: "must be a decimal number"}
	}
	if f < min || f > max {
		return 0, &ParameterError{
			Protocol: tag,
			Field:    field,
			Reason:   fmt.Sprintf("must be between %v and %v, got %v", min, max, f),
		}
	}
	return f, nil
}

// nameField validates an optional identifier-like field (map styles,
// language codes). Empty values are fine; anything else must match
// [-_0-9a-zA-Z]+.
func nameField(tag ProtocolTag, field, value string) error {
	if value == "" {
		return nil
	}
	if !namePattern.MatchString(value) {
		return &ParameterError{Protocol: tag, Field: field, Reason: "must match [-_0-9a-zA-Z]+"}
	}
	return nil
}

// validTitle validates a wiki page/file/dataset title: non-empty, no pipe
// separator, no ASCII unit separator. Both characters are MediaWiki title
// injection vectors.
func validTitle(tag ProtocolTag, title string) error {
	if title == "" {
		return &ParameterError{Protocol: tag, Field: "title", Missing: true}
	}
	if strings.ContainsAny(title, "|\x1f") {
		return &ParameterError{Protocol: tag, Field: "title", Reason: "must not contain '|' or 0x1F"}
	}
	return nil
}

// formatFloat renders a float the shortest way that round-trips, so whole
// numbers appear without a decimal point in constructed paths.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
