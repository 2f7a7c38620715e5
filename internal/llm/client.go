package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Client defines the interface for vision-capable LLM providers.
// Generate returns the model's raw text answer; callers own all parsing.
type Client interface {
	Generate(ctx context.Context, prompt string, image Image) (string, error)
}

// Image is an inline image payload sent alongside a prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// Base64 returns the image data in standard base64 encoding.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}

// Empty reports whether the image carries no data.
func (i Image) Empty() bool {
	return len(i.Data) == 0
}

// LoadImage reads an image file and sniffs its MIME type.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	return NewImage(data)
}

// NewImage wraps raw bytes, rejecting anything that does not sniff as an image.
func NewImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("image is empty")
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return Image{}, fmt.Errorf("unsupported content type %q", mimeType)
	}

	return Image{MIMEType: mimeType, Data: data}, nil
}
