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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorUnmarshal(t *testing.T) {
	spec := []byte(`{
		"protocol": "mapsnapshot",
		"width": 100,
		"height": "100",
		"lat": 10.5,
		"lon": -20,
		"zoom": 5,
		"style": "osm-intl"
	}`)
	var d Descriptor
	require.NoError(t, json.Unmarshal(spec, &d))

	assert.Equal(t, ProtocolMapSnapshot, d.Protocol)
	assert.Equal(t, float64(100), d.Width)
	// String-typed numbers survive unmarshalling and are validated later.
	assert.Equal(t, "100", d.Height)
	assert.Equal(t, 10.5, d.Lat)
}

func TestStringListUnmarshal(t *testing.T) {
	t.Run("bare string becomes one-element list", func(t *testing.T) {
		var s StringList
		require.NoError(t, json.Unmarshal([]byte(`"Q16"`), &s))
		assert.Equal(t, StringList{"Q16"}, s)
	})

	t.Run("array of strings", func(t *testing.T) {
		var s StringList
		require.NoError(t, json.Unmarshal([]byte(`["Q16","Q30"]`), &s))
		assert.Equal(t, StringList{"Q16", "Q30"}, s)
	})

	t.Run("array of non-strings rejected", func(t *testing.T) {
		var s StringList
		assert.Error(t, json.Unmarshal([]byte(`[16]`), &s))
	})

	t.Run("object rejected", func(t *testing.T) {
		var s StringList
		assert.Error(t, json.Unmarshal([]byte(`{"id":"Q16"}`), &s))
	})
}

func TestDescriptorParamsArrayRejected(t *testing.T) {
	var d Descriptor
	err := json.Unmarshal([]byte(`{"protocol":"wikiapi","params":["a","b"]}`), &d)
	assert.Error(t, err, "params must be an object, not an array")
}
