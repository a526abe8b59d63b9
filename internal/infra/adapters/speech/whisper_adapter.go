package speech

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"video-ai-tutor/internal/domain/ports/adapter"
)

var _ adapter.SpeechToTextAdapter = (*WhisperAdapter)(nil)

// WhisperAdapter transcribes local audio files through the Transcriptions API.
type WhisperAdapter struct {
	client openai.Client
	model  string
}

// NewWhisperAdapter tolerates an empty key so dev runs can boot; requests
// then fail with an auth error when first exercised.
func NewWhisperAdapter(apiKey, model string) (*WhisperAdapter, error) {
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (w *WhisperAdapter) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio %s: %w", audioPath, err)
	}
	defer f.Close()

	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  f,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	return resp.Text, nil
}
