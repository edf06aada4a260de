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

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
	logger.Info("fetch complete", ProtocolKey, "tabular", HostKey, "sec.org")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetch complete", entry["msg"])
	assert.Equal(t, "tabular", entry[ProtocolKey])
	assert.Equal(t, "sec.org", entry[HostKey])
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatText, Output: &buf})
	logger.Info("fetch complete", ProtocolKey, "geoshape")

	assert.Contains(t, buf.String(), "fetch complete")
	assert.Contains(t, buf.String(), "protocol=geoshape")
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "warn", Format: FormatText, Output: &buf})
	logger.Info("should not appear")
	logger.Warn("should appear")

	assert.NotContains(t, buf.String(), "should not appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNewNilConfig(t *testing.T) {
	assert.NotNil(t, New(nil))
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATASOURCE_DEBUG", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		t.Setenv("LOG_SOURCE", "")
		cfg := FromEnv()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, FormatJSON, cfg.Format)
	})

	t.Run("debug flag", func(t *testing.T) {
		t.Setenv("DATASOURCE_DEBUG", "1")
		cfg := FromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.True(t, cfg.AddSource)
	})

	t.Run("level and format", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "WARN")
		t.Setenv("LOG_FORMAT", "text")
		cfg := FromEnv()
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, FormatText, cfg.Format)
	})
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := New(&Config{Level: "info", Format: FormatText, Output: &buf})

	WithProtocol(base, "wikiapi").Info("translated")
	assert.Contains(t, buf.String(), "protocol=wikiapi")

	buf.Reset()
	WithComponent(base, "decoder").Info("decoded")
	assert.Contains(t, buf.String(), "component=decoder")
}
