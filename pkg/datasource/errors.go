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

// Error types for the sanitize/fetch/decode pipeline. Every error is fatal
// to the current request; the core never retries or substitutes defaults.

// ParameterError reports a descriptor field that is absent or fails its
// pattern/range check.
type ParameterError struct {
	// Protocol is the tag whose validation rule rejected the field.
	Protocol ProtocolTag

	// Field identifies the offending descriptor field.
	Field string

	// Reason describes what is wrong with the value. Empty for missing
	// fields.
	Reason string

	// Missing is true when the field was required but absent.
	Missing bool
}

func (e *ParameterError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: required parameter %q is missing", e.Protocol, e.Field)
	}
	return fmt.Sprintf("%s: invalid parameter %q: %s", e.Protocol, e.Field, e.Reason)
}

// HostNotAllowedError reports a host that matches no configured allowlist
// entry for the applicable protocol.
type HostNotAllowedError struct {
	Protocol ProtocolTag
	Host     string
}

func (e *HostNotAllowedError) Error() string {
	return fmt.Sprintf("%s: host %q is not in the allowlist", e.Protocol, e.Host)
}

// ProtocolDisabledError reports a service-backed protocol with no configured
// allowed domains at all.
type ProtocolDisabledError struct {
	Protocol ProtocolTag
}

func (e *ProtocolDisabledError) Error() string {
	return fmt.Sprintf("%s: protocol is disabled, no allowed domains configured", e.Protocol)
}

// UnknownProtocolError reports a protocol tag outside the closed enumeration.
type UnknownProtocolError struct {
	Tag string
}

func (e *UnknownProtocolError) Error() string {
	return fmt.Sprintf("unknown protocol %q", e.Tag)
}

// UntrustedProtocolError reports a raw http/https request made while the
// specification is running in untrusted mode.
type UntrustedProtocolError struct {
	Protocol ProtocolTag
}

func (e *UntrustedProtocolError) Error() string {
	return fmt.Sprintf("%s: raw %s requests are forbidden for untrusted specifications", e.Protocol, e.Protocol)
}

// APIError carries the error payload reported by a backend API envelope.
type APIError struct {
	Protocol ProtocolTag
	Payload  any
}

func (e *APIError) Error() string {
	if b, err := json.Marshal(e.Payload); err == nil {
		return fmt.Sprintf("%s: api error: %s", e.Protocol, b)
	}
	return fmt.Sprintf("%s: api error: %v", e.Protocol, e.Payload)
}

// ContentUnavailableError reports an expected nested field missing from an
// otherwise successful response.
type ContentUnavailableError struct {
	Protocol ProtocolTag
	Missing  string
}

func (e *ContentUnavailableError) Error() string {
	return fmt.Sprintf("%s: response content unavailable: missing %s", e.Protocol, e.Missing)
}

// MalformedResultError reports a response body that does not have the shape
// the protocol requires.
type MalformedResultError struct {
	Protocol ProtocolTag
	Reason   string
	Cause    error
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("%s: malformed result: %s", e.Protocol, e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *MalformedResultError) Unwrap() error {
	return e.Cause
}
