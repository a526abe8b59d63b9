// File: internal/application/study_facade.go
package application

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"video-ai-tutor/internal/domain/model"
	"video-ai-tutor/internal/domain/ports/adapter"
	"video-ai-tutor/internal/usecase"
)

// StudyFacade is the single entry point the transport layer talks to. It
// translates between HTTP-shaped requests/responses and the use cases.
type StudyFacade struct {
	ingest usecase.IngestUseCase
	agent  usecase.AgentUseCase
	tts    adapter.SpeechSynthesisAdapter
	voice  string
	log    *zerolog.Logger
}

func New(
	ingest usecase.IngestUseCase,
	agent usecase.AgentUseCase,
	tts adapter.SpeechSynthesisAdapter,
	voice string,
	logger *zerolog.Logger,
) *StudyFacade {
	return &StudyFacade{ingest: ingest, agent: agent, tts: tts, voice: voice, log: logger}
}

// StartResponse is the immediate acknowledgement for a processing request.
type StartResponse struct {
	Accepted   bool   `json:"accepted"`
	Status     string `json:"status"`
	TotalFiles int    `json:"totalFiles,omitempty"`
}

// ProgressResponse is the poll payload for the owner's current batch.
type ProgressResponse struct {
	Status              string  `json:"status"`
	Progress            float64 `json:"progress"`
	CurrentFile         string  `json:"currentFile,omitempty"`
	CompletedFiles      int     `json:"completedFiles"`
	TotalFiles          int     `json:"totalFiles"`
	EstimatedCompletion string  `json:"estimatedCompletion,omitempty"`
	ElapsedTime         string  `json:"elapsedTime,omitempty"`
	TotalTime           string  `json:"totalTime,omitempty"`
	Error               string  `json:"error,omitempty"`
}

// ChatResponse carries one agent reply.
type ChatResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// SpeakResponse carries synthesized speech as base64 MP3 bytes.
type SpeakResponse struct {
	Audio string `json:"audio"`
}

// HandleStart validates and launches a batch for the owner.
func (f *StudyFacade) HandleStart(ctx context.Context, ownerID string, mode model.IngestMode, input string) (*StartResponse, error) {
	res, err := f.ingest.StartBatch(ctx, ownerID, mode, input)
	if err != nil {
		return nil, fmt.Errorf("start batch: %w", err)
	}
	if !res.Accepted {
		return &StartResponse{Accepted: false, Status: res.Reason}, nil
	}
	return &StartResponse{
		Accepted:   true,
		Status:     "✅ Processing started! You will see progress updates.",
		TotalFiles: res.TotalSources,
	}, nil
}

// HandleProgress reports the owner's latest batch snapshot.
func (f *StudyFacade) HandleProgress(ctx context.Context, ownerID string) (*ProgressResponse, error) {
	rep, err := f.ingest.Progress(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return &ProgressResponse{
		Status:              string(rep.Status),
		Progress:            rep.Percent,
		CurrentFile:         rep.CurrentLabel,
		CompletedFiles:      rep.Completed,
		TotalFiles:          rep.Total,
		EstimatedCompletion: rep.EstimatedCompletion,
		ElapsedTime:         rep.Elapsed,
		TotalTime:           rep.TotalElapsed,
		Error:               rep.Error,
	}, nil
}

// HandleChat runs one agent turn. Tool errors come back in the response body
// rather than as transport errors, so the client always gets a reply.
func (f *StudyFacade) HandleChat(ctx context.Context, ownerID, message string) *ChatResponse {
	reply, err := f.agent.Chat(ctx, ownerID, message)
	if err != nil {
		f.log.Error().Err(err).Str("owner_id", ownerID).Msg("chat turn failed")
		if reply == "" {
			reply = "❌ Error: " + err.Error()
		}
		return &ChatResponse{Reply: reply, Error: err.Error()}
	}
	return &ChatResponse{Reply: reply}
}

// HandleSpeak synthesizes the given text with the configured voice.
func (f *StudyFacade) HandleSpeak(ctx context.Context, text string) (*SpeakResponse, error) {
	audio, err := f.tts.Synthesize(ctx, text, f.voice)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return &SpeakResponse{Audio: base64.StdEncoding.EncodeToString(audio)}, nil
}
