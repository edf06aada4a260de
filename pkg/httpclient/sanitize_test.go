package httpclient

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no query params",
			input: "https://en.wikipedia.org/w/api.php",
			want:  "https://en.wikipedia.org/w/api.php",
		},
		{
			name:  "benign params untouched",
			input: "https://en.wikipedia.org/w/api.php?action=query&format=json",
			want:  "https://en.wikipedia.org/w/api.php?action=query&format=json",
		},
		{
			name:  "api_key redacted",
			input: "https://example.com/data?api_key=secret123",
			want:  "https://example.com/data?api_key=%5BREDACTED%5D",
		},
		{
			name:  "token redacted case-insensitively",
			input: "https://example.com/data?TOKEN=abc",
			want:  "https://example.com/data?TOKEN=%5BREDACTED%5D",
		},
		{
			name:  "substring match catches variants",
			input: "https://example.com/data?access_token=abc&page=2",
			want:  "https://example.com/data?access_token=%5BREDACTED%5D&page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sanitizeURL(u))
		})
	}
}

func TestSanitizeURLNil(t *testing.T) {
	assert.Equal(t, "", sanitizeURL(nil))
}

func TestIsSensitiveParam(t *testing.T) {
	assert.True(t, isSensitiveParam("api_key"))
	assert.True(t, isSensitiveParam("Authorization_Token"))
	assert.True(t, isSensitiveParam("client_secret"))
	assert.False(t, isSensitiveParam("action"))
	assert.False(t, isSensitiveParam("format"))
}
