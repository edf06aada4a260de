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
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chartkit/datasource/pkg/httpclient"
)

// TransportConfig configures the default HTTP transport.
type TransportConfig struct {
	// Client configures the underlying HTTP client factory.
	Client httpclient.Config

	// MaxResponseSize caps the response body size (default: 10MB).
	MaxResponseSize int64
}

// DefaultTransportConfig returns a TransportConfig with secure defaults.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Client:          httpclient.DefaultConfig(),
		MaxResponseSize: 10 * 1024 * 1024,
	}
}

// HTTPTransport is the default Transport: one GET per request, no retries.
type HTTPTransport struct {
	client  *http.Client
	maxBody int64
}

// NewHTTPTransport creates the default transport from the given config.
func NewHTTPTransport(cfg TransportConfig) (*HTTPTransport, error) {
	client, err := httpclient.New(cfg.Client)
	if err != nil {
		return nil, err
	}
	maxBody := cfg.MaxResponseSize
	if maxBody <= 0 {
		maxBody = 10 * 1024 * 1024
	}
	return &HTTPTransport{client: client, maxBody: maxBody}, nil
}

// HTTPStatusError reports a non-2xx response status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
}

// Do implements Transport. The anonymous-CORS marker set during
// sanitization becomes the origin=* query parameter wiki APIs expect.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) ([]byte, error) {
	target := req.URL
	if req.AddCORSOrigin {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "origin=*"
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > t.maxBody {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", req.Parts.Host, t.maxBody)
	}
	return body, nil
}
