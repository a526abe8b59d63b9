// File: internal/usecase/ingest_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"video-ai-tutor/internal/domain"
	"video-ai-tutor/internal/domain/model"
	"video-ai-tutor/internal/domain/ports/adapter"
	"video-ai-tutor/internal/domain/ports/repository"
	"video-ai-tutor/internal/infra/logging"
	"video-ai-tutor/internal/infra/metrics"
)

// Compile-time check
var _ IngestUseCase = (*ingestUC)(nil)

// Chunker splits transcript text into bounded, overlapping pieces.
type Chunker interface {
	Split(text string) []string
}

// JobRunner executes a batch on its own worker, off the request path.
type JobRunner interface {
	Submit(ctx context.Context, ownerID string, job func(ctx context.Context) error)
}

// StartResult is the immediate answer to a processing request.
type StartResult struct {
	Accepted     bool
	TotalSources int
	Reason       string // user-facing rejection text when not accepted
}

// ProgressReport is the poll-friendly view of an owner's batch.
type ProgressReport struct {
	Status              model.BatchStatus
	Percent             float64
	CurrentLabel        string
	Completed           int
	Total               int
	EstimatedCompletion string // wall-clock "15:04:05", empty when unknown
	Elapsed             string // "12.34 seconds"
	TotalElapsed        string // set once complete
	Error               string
}

type IngestUseCase interface {
	StartBatch(ctx context.Context, ownerID string, mode model.IngestMode, input string) (*StartResult, error)
	Progress(ctx context.Context, ownerID string) (*ProgressReport, error)
}

var linkPattern = regexp.MustCompile(`https?://[^\s]+`)

type ingestUC struct {
	videos   adapter.VideoResolverAdapter
	audio    adapter.AudioFetchAdapter
	stt      adapter.SpeechToTextAdapter
	topics   adapter.TopicSearchAdapter
	chunker  Chunker
	index    repository.VectorIndexRepository
	progress repository.ProgressRepository
	runner   JobRunner
	log      *zerolog.Logger

	workDir  string
	topicCap int
	now      func() time.Time
}

func NewIngestUseCase(
	videos adapter.VideoResolverAdapter,
	audio adapter.AudioFetchAdapter,
	stt adapter.SpeechToTextAdapter,
	topics adapter.TopicSearchAdapter,
	chunker Chunker,
	index repository.VectorIndexRepository,
	progress repository.ProgressRepository,
	runner JobRunner,
	workDir string,
	topicCap int,
	logger *zerolog.Logger,
) *ingestUC {
	if topicCap <= 0 {
		topicCap = 3
	}
	return &ingestUC{
		videos:   videos,
		audio:    audio,
		stt:      stt,
		topics:   topics,
		chunker:  chunker,
		index:    index,
		progress: progress,
		runner:   runner,
		log:      logger,
		workDir:  workDir,
		topicCap: topicCap,
		now:      time.Now,
	}
}

// StartBatch resolves the input into sources and, when at least one source
// passes the duration policy, hands the batch to a background worker. The
// call itself returns immediately.
func (uc *ingestUC) StartBatch(ctx context.Context, ownerID string, mode model.IngestMode, input string) (*StartResult, error) {
	sources, reason := uc.resolve(ctx, mode, input)
	if len(sources) == 0 {
		if reason == "" {
			reason = "❌ No suitable links found."
		}
		return &StartResult{Accepted: false, Reason: reason}, nil
	}

	job := &model.BatchJob{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Sources:   sources,
		StartedAt: uc.now(),
	}

	// Publish the initial record before the worker starts so a poll issued
	// right after acceptance never sees "unknown".
	initial := &model.BatchProgress{
		JobID:     job.ID,
		Status:    model.BatchRunning,
		Total:     len(sources),
		StartedAt: job.StartedAt,
	}
	if err := uc.progress.Replace(ctx, ownerID, initial); err != nil {
		return nil, fmt.Errorf("publish initial progress: %w", err)
	}

	// The batch outlives the request that started it.
	uc.runner.Submit(context.WithoutCancel(ctx), ownerID, func(jobCtx context.Context) error {
		return uc.run(jobCtx, job)
	})

	return &StartResult{Accepted: true, TotalSources: len(sources)}, nil
}

// resolve turns (mode, input) into the ordered, duration-filtered source
// list. A non-empty reason is returned only for whole-request rejections.
func (uc *ingestUC) resolve(ctx context.Context, mode model.IngestMode, input string) ([]model.Source, string) {
	switch mode {
	case model.ModeUpload:
		if strings.TrimSpace(input) == "" {
			return nil, "❌ No file uploaded."
		}
		return []model.Source{model.NewFileSource(input)}, ""

	case model.ModeTopic:
		return uc.resolveTopic(ctx, input), ""

	case model.ModePlaylist:
		if !strings.HasPrefix(input, "http") {
			return nil, "❌ Invalid playlist URL."
		}
		return uc.resolvePlaylist(ctx, input), ""

	case model.ModeSingleURL:
		return uc.resolveSingle(ctx, input)

	default:
		return nil, fmt.Sprintf("❌ Unsupported mode %q.", mode)
	}
}

func (uc *ingestUC) resolveTopic(ctx context.Context, topic string) []model.Source {
	blob, err := uc.topics.Search(ctx, topic, uc.topicCap*2)
	if err != nil {
		uc.log.Warn().Err(err).Str("topic", topic).Msg("topic search failed")
		return nil
	}

	var sources []model.Source
	for _, link := range linkPattern.FindAllString(blob, -1) {
		if len(sources) >= uc.topicCap {
			break
		}
		info, err := uc.videos.Probe(ctx, link)
		if err != nil {
			// Probe failure is a soft filter failure: drop and continue.
			uc.log.Warn().Err(err).Str("url", link).Msg("duration probe failed")
			continue
		}
		if model.ValidDuration(info.DurationSeconds) {
			sources = append(sources, model.NewURLSource(link, info.DurationSeconds))
		}
	}
	return sources
}

func (uc *ingestUC) resolvePlaylist(ctx context.Context, url string) []model.Source {
	entries, err := uc.videos.Playlist(ctx, url)
	if err != nil {
		uc.log.Warn().Err(err).Str("url", url).Msg("playlist resolution failed")
		return nil
	}

	var sources []model.Source
	for _, e := range entries {
		dur := e.DurationSeconds
		if dur <= 0 {
			// Flat extraction did not carry a duration; probe the member.
			info, err := uc.videos.Probe(ctx, e.URL)
			if err != nil {
				uc.log.Warn().Err(err).Str("url", e.URL).Msg("duration probe failed")
				continue
			}
			dur = info.DurationSeconds
		}
		if model.ValidDuration(dur) {
			sources = append(sources, model.NewURLSource(e.URL, dur))
		}
	}
	return sources
}

// resolveSingle is the one mode where an oversized video rejects the whole
// request instead of being silently dropped.
func (uc *ingestUC) resolveSingle(ctx context.Context, url string) ([]model.Source, string) {
	if !strings.HasPrefix(url, "http") {
		return nil, "❌ Invalid video URL."
	}
	info, err := uc.videos.Probe(ctx, url)
	if err != nil {
		uc.log.Warn().Err(err).Str("url", url).Msg("duration probe failed")
		return nil, "❌ Video exceeds 30 minutes."
	}
	if !model.ValidDuration(info.DurationSeconds) {
		return nil, "❌ Video exceeds 30 minutes."
	}
	return []model.Source{model.NewURLSource(url, info.DurationSeconds)}, ""
}

// run drives the batch: acquire → transcribe → chunk per source, strictly in
// order, then one index write for everything. Any per-source failure aborts
// the whole batch with no partial index commit.
func (uc *ingestUC) run(ctx context.Context, job *model.BatchJob) error {
	ctx = logging.WithJobID(logging.WithOwnerID(ctx, job.OwnerID), job.ID)
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "IngestUC.run")()

	start := uc.now()
	prog := &model.BatchProgress{
		JobID:     job.ID,
		Status:    model.BatchRunning,
		Total:     len(job.Sources),
		StartedAt: start,
	}
	publish := func() {
		cp := *prog
		if err := uc.progress.Replace(ctx, job.OwnerID, &cp); err != nil {
			log.Warn().Err(err).Msg("publish progress failed")
		}
	}
	fail := func(err error) error {
		prog.Status = model.BatchFailed
		prog.Error = err.Error()
		prog.EstimatedCompletion = nil
		publish()
		metrics.IncBatchJob(string(model.BatchFailed))
		return err
	}

	publish()

	var all []model.TranscriptChunk
	for i, src := range job.Sources {
		prog.CurrentLabel = src.DisplayName()
		publish()

		audioPath, err := uc.acquire(ctx, job.OwnerID, i, src)
		if err != nil {
			return fail(fmt.Errorf("acquire %s: %w", src.DisplayName(), err))
		}
		text, err := uc.stt.Transcribe(ctx, audioPath)
		if err != nil {
			return fail(fmt.Errorf("transcribe %s: %w", src.DisplayName(), err))
		}
		for idx, piece := range uc.chunker.Split(text) {
			all = append(all, model.TranscriptChunk{
				Text:        strings.ToLower(piece),
				SourceRef:   src.RawValue,
				SourceLabel: src.DisplayName(),
				ChunkIndex:  idx,
			})
		}

		prog.Completed = i + 1
		if prog.Completed < prog.Total {
			elapsed := uc.now().Sub(start)
			avg := elapsed / time.Duration(prog.Completed)
			eta := uc.now().Add(avg * time.Duration(prog.Total-prog.Completed))
			prog.EstimatedCompletion = &eta
		} else {
			prog.EstimatedCompletion = nil
		}
		publish()
		metrics.IncBatchSource()
	}

	if len(all) > 0 {
		if err := uc.index.Append(ctx, job.OwnerID, all); err != nil {
			return fail(fmt.Errorf("index %d chunks: %w", len(all), err))
		}
	}

	prog.Status = model.BatchComplete
	prog.CurrentLabel = ""
	prog.TotalElapsedSeconds = uc.now().Sub(start).Seconds()
	publish()
	metrics.IncBatchJob(string(model.BatchComplete))
	metrics.ObserveBatchDuration(prog.TotalElapsedSeconds)
	log.Info().
		Int("sources", prog.Total).
		Int("chunks", len(all)).
		Msg("batch complete")
	return nil
}

// acquire downloads a remote source or passes a local file through.
// Download artifacts are namespaced by owner id so concurrent batches for
// different owners never collide on position alone.
func (uc *ingestUC) acquire(ctx context.Context, ownerID string, idx int, src model.Source) (string, error) {
	if !src.Remote() {
		return src.RawValue, nil
	}
	destPrefix := filepath.Join(uc.workDir, fmt.Sprintf("%s_%d", ownerID, idx))
	return uc.audio.Fetch(ctx, src.RawValue, destPrefix)
}

// Progress reads the latest published record for the owner. Owners with no
// record at all report status "unknown".
func (uc *ingestUC) Progress(ctx context.Context, ownerID string) (*ProgressReport, error) {
	p, err := uc.progress.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &ProgressReport{Status: model.BatchUnknown}, nil
		}
		return nil, err
	}

	rep := &ProgressReport{
		Status:       p.Status,
		Percent:      p.Percent(),
		CurrentLabel: p.CurrentLabel,
		Completed:    p.Completed,
		Total:        p.Total,
		Elapsed:      fmt.Sprintf("%.2f seconds", uc.now().Sub(p.StartedAt).Seconds()),
		Error:        p.Error,
	}
	if p.EstimatedCompletion != nil {
		rep.EstimatedCompletion = p.EstimatedCompletion.Format("15:04:05")
	}
	if p.Status == model.BatchComplete {
		rep.TotalElapsed = fmt.Sprintf("%.2f seconds", p.TotalElapsedSeconds)
	}
	return rep, nil
}
