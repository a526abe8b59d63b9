// File: internal/infra/adapters/image/ideogram_adapter.go
package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"video-ai-tutor/internal/domain/ports/adapter"
)

var _ adapter.ImageGenAdapter = (*IdeogramAdapter)(nil)

const defaultEndpoint = "https://api.ideogram.ai/v1/ideogram-v3/generate"

// IdeogramAdapter generates images through the Ideogram v3 endpoint.
// A non-200 response surfaces the raw response body as the error message.
type IdeogramAdapter struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewIdeogramAdapter(apiKey, endpoint string) (*IdeogramAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("ideogram api key empty")
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &IdeogramAdapter{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *IdeogramAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"prompt":          prompt,
		"rendering_speed": "QUALITY",
		"aspect_ratio":    "16x9",
		"style_type":      "GENERAL",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Api-Key", a.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(strings.TrimSpace(string(body)))
	}

	var payload struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if len(payload.Data) == 0 || payload.Data[0].URL == "" {
		return "", errors.New("image response contained no url")
	}
	return payload.Data[0].URL, nil
}
