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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPipeline(t *testing.T) {
	var calls int
	var seen *Request
	l := testLoader(t, func(c *Config) {
		c.Transport = TransportFunc(func(ctx context.Context, req *Request) ([]byte, error) {
			calls++
			seen = req
			return []byte(`{"jsondata":{"schema":{"fields":[{"name":"x"}]},"data":[[1]]}}`), nil
		})
	})

	result, err := l.Load(context.Background(), &Descriptor{
		Protocol: ProtocolTabular,
		Title:    "Stats.tab",
	}, Options{Domain: "sec.org"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "exactly one transport call per request")
	require.NotNil(t, seen)
	assert.Equal(t, ProtocolTabular, seen.Protocol)
	assert.True(t, seen.AddCORSOrigin)

	tab, ok := result.(*TabularData)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, tab.Fields)
	assert.Equal(t, float64(1), tab.Data[0]["x"])
}

func TestLoadValidationFailureSkipsTransport(t *testing.T) {
	var calls int
	l := testLoader(t, func(c *Config) {
		c.Transport = TransportFunc(func(ctx context.Context, req *Request) ([]byte, error) {
			calls++
			return nil, nil
		})
	})

	_, err := l.Load(context.Background(), &Descriptor{
		Protocol: ProtocolMapSnapshot,
		Width:    float64(100),
		Height:   float64(100),
		Lat:      float64(10),
		Lon:      float64(10),
		Zoom:     float64(23),
	}, Options{})

	var paramErr *ParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, 0, calls, "validation failures must short-circuit before any network call")
}

func TestLoadTransportFailurePropagatesUnchanged(t *testing.T) {
	sentinel := errors.New("connection reset")
	l := testLoader(t, func(c *Config) {
		c.Transport = TransportFunc(func(ctx context.Context, req *Request) ([]byte, error) {
			return nil, sentinel
		})
	})

	_, err := l.Load(context.Background(), &Descriptor{
		Protocol: ProtocolGeoShape,
		Ids:      StringList{"Q16"},
	}, Options{})
	assert.ErrorIs(t, err, sentinel)
}

func TestLoadDecodeFailure(t *testing.T) {
	l := testLoader(t, func(c *Config) {
		c.Transport = TransportFunc(func(ctx context.Context, req *Request) ([]byte, error) {
			return []byte(`{"head":{}}`), nil
		})
	})

	_, err := l.Load(context.Background(), &Descriptor{
		Protocol: ProtocolSparql,
		Query:    "SELECT ?x WHERE {}",
	}, Options{})
	var malformedErr *MalformedResultError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestLoadHonorsContextCancellation(t *testing.T) {
	l := testLoader(t, func(c *Config) {
		c.Transport = TransportFunc(func(ctx context.Context, req *Request) ([]byte, error) {
			return nil, ctx.Err()
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, &Descriptor{Protocol: ProtocolGeoShape, Ids: StringList{"Q16"}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
