package speech

import (
	"context"
	"io"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"video-ai-tutor/internal/domain/ports/adapter"
)

var _ adapter.SpeechSynthesisAdapter = (*TTSAdapter)(nil)

// TTSAdapter synthesizes speech through the Audio Speech API.
type TTSAdapter struct {
	client openai.Client
	model  string
}

// NewTTSAdapter tolerates an empty key so dev runs can boot; requests then
// fail with an auth error when first exercised.
func NewTTSAdapter(apiKey, model string) (*TTSAdapter, error) {
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	return &TTSAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (t *TTSAdapter) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = "alloy"
	}
	resp, err := t.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(t.model),
		Voice: openai.AudioSpeechNewParamsVoice(voice),
		Input: text,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
