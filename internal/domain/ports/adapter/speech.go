package adapter

import "context"

// SpeechToTextAdapter converts a local audio file into plain transcript text.
type SpeechToTextAdapter interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// SpeechSynthesisAdapter converts text into audio bytes. Consumed by the web
// layer's speak endpoint; not part of the ingestion/agent core.
type SpeechSynthesisAdapter interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
