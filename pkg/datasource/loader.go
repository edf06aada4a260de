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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chartkit/datasource/internal/log"
)

// Transport performs the single network fetch for a sanitized request. The
// core never retries; a cancelled or aborted fetch is an ordinary failure.
type Transport interface {
	Do(ctx context.Context, req *Request) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) ([]byte, error)

// Do implements Transport.
func (f TransportFunc) Do(ctx context.Context, req *Request) ([]byte, error) {
	return f(ctx, req)
}

// Loader is the sanitize → fetch → decode pipeline for one allowlist
// configuration. Safe for concurrent use; the lazily built allowlist
// matcher cache is its only shared mutable state.
type Loader struct {
	hosts        *hostResolver
	domains      map[string][]string
	trusted      bool
	languageCode string
	logger       *slog.Logger
	transport    Transport
	bindingValue BindingValueFunc
	tracer       trace.Tracer
}

// New creates a Loader from the given configuration, filling in default
// collaborators where none were injected.
func New(cfg Config) (*Loader, error) {
	transport := cfg.Transport
	if transport == nil {
		t, err := NewHTTPTransport(DefaultTransportConfig())
		if err != nil {
			return nil, err
		}
		transport = t
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.FromEnv())
	}
	bindingValue := cfg.BindingValue
	if bindingValue == nil {
		bindingValue = WikidataValue
	}
	return &Loader{
		hosts:        newHostResolver(cfg.Domains, cfg.DomainMap),
		domains:      cfg.Domains,
		trusted:      cfg.Trusted,
		languageCode: cfg.LanguageCode,
		logger:       logger,
		transport:    transport,
		bindingValue: bindingValue,
		tracer:       otel.Tracer("chartkit/datasource"),
	}, nil
}

// Fetch performs exactly one transport call for a sanitized request.
// Transport failures propagate unchanged.
func (l *Loader) Fetch(ctx context.Context, req *Request) ([]byte, error) {
	ctx, span := l.tracer.Start(ctx, "datasource.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("datasource.protocol", req.Protocol.String()),
			attribute.String("server.address", req.Parts.Host),
		),
	)
	defer span.End()

	start := time.Now()
	body, err := l.transport.Do(ctx, req)
	fetchDuration.WithLabelValues(req.Protocol.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	return body, nil
}

// Load runs the full pipeline: Sanitize, one Fetch, Decode. The first
// failure short-circuits; nothing touches the network until the descriptor
// has fully validated.
func (l *Loader) Load(ctx context.Context, d *Descriptor, opts Options) (any, error) {
	req, err := l.Sanitize(d, opts)
	if err != nil {
		requestsTotal.WithLabelValues(protocolLabel(d), "rejected").Inc()
		return nil, err
	}
	body, err := l.Fetch(ctx, req)
	if err != nil {
		requestsTotal.WithLabelValues(req.Protocol.String(), "transport_error").Inc()
		return nil, err
	}
	result, err := l.Decode(req.Protocol, body)
	if err != nil {
		requestsTotal.WithLabelValues(req.Protocol.String(), "decode_error").Inc()
		return nil, err
	}
	requestsTotal.WithLabelValues(req.Protocol.String(), "ok").Inc()
	return result, nil
}

func protocolLabel(d *Descriptor) string {
	if d == nil {
		return ProtocolOpen.String()
	}
	return d.Protocol.String()
}
