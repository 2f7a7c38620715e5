package llm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header; enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestNewImage(t *testing.T) {
	img, err := NewImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "data:image/png;base64,"+img.Base64(), img.DataURL())

	_, err = NewImage(nil)
	require.Error(t, err)

	_, err = NewImage([]byte("just some text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waste.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.False(t, img.Empty())

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "gemini", cfg: Config{Provider: "gemini", APIKey: "k"}},
		{name: "default provider is gemini", cfg: Config{APIKey: "k"}},
		{name: "openai", cfg: Config{Provider: "OpenAI", APIKey: "k"}},
		{name: "anthropic", cfg: Config{Provider: "anthropic", APIKey: "k"}},
		{name: "missing key", cfg: Config{Provider: "openai"}, wantErr: true},
		{name: "unknown provider", cfg: Config{Provider: "mystery", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			limited, ok := client.(*limitedClient)
			require.True(t, ok)
			_ = limited.Close()
		})
	}
}
