// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"video-ai-tutor/internal/domain"
	"video-ai-tutor/internal/domain/model"
	"video-ai-tutor/internal/domain/ports/adapter"
)

// --- video resolver ---

type fakeVideoResolver struct {
	infos    map[string]*adapter.VideoInfo
	probeErr map[string]error
	playlist []adapter.PlaylistEntry
	plErr    error
}

func newFakeVideoResolver() *fakeVideoResolver {
	return &fakeVideoResolver{
		infos:    make(map[string]*adapter.VideoInfo),
		probeErr: make(map[string]error),
	}
}

func (f *fakeVideoResolver) Probe(_ context.Context, url string) (*adapter.VideoInfo, error) {
	if err := f.probeErr[url]; err != nil {
		return nil, err
	}
	info, ok := f.infos[url]
	if !ok {
		return nil, errors.New("probe: unknown url " + url)
	}
	return info, nil
}

func (f *fakeVideoResolver) Playlist(_ context.Context, _ string) ([]adapter.PlaylistEntry, error) {
	if f.plErr != nil {
		return nil, f.plErr
	}
	return f.playlist, nil
}

// --- audio fetcher ---

type fakeAudioFetcher struct {
	mu       sync.Mutex
	fetched  []string // destPrefix values, in call order
	failURLs map[string]error
}

func newFakeAudioFetcher() *fakeAudioFetcher {
	return &fakeAudioFetcher{failURLs: make(map[string]error)}
}

func (f *fakeAudioFetcher) Fetch(_ context.Context, url, destPrefix string) (string, error) {
	if err := f.failURLs[url]; err != nil {
		return "", err
	}
	f.mu.Lock()
	f.fetched = append(f.fetched, destPrefix)
	f.mu.Unlock()
	return destPrefix + ".m4a", nil
}

// --- speech to text ---

type fakeSTT struct {
	transcripts map[string]string // audio path -> text
	err         error
}

func (f *fakeSTT) Transcribe(_ context.Context, audioPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if t, ok := f.transcripts[audioPath]; ok {
		return t, nil
	}
	return "Default Transcript For " + audioPath, nil
}

// --- topic search ---

type fakeTopicSearch struct {
	blob string
	err  error
}

func (f *fakeTopicSearch) Search(_ context.Context, _ string, _ int) (string, error) {
	return f.blob, f.err
}

// --- chunker ---

// fakeChunker splits on "|" so tests control chunk boundaries exactly.
type fakeChunker struct{}

func (fakeChunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "|")
}

// --- vector index ---

type memVectorRepo struct {
	mu        sync.Mutex
	chunks    map[string][]model.TranscriptChunk
	created   map[string]bool
	hits      []model.TranscriptChunk // canned SimilaritySearch result
	searchErr error
	appendErr error
	createErr error
}

func newMemVectorRepo() *memVectorRepo {
	return &memVectorRepo{
		chunks:  make(map[string][]model.TranscriptChunk),
		created: make(map[string]bool),
	}
}

func (r *memVectorRepo) GetOrCreate(_ context.Context, ownerID string) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[ownerID] = true
	return nil
}

func (r *memVectorRepo) Append(_ context.Context, ownerID string, chunks []model.TranscriptChunk) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks[ownerID] = append(r.chunks[ownerID], chunks...)
	return nil
}

func (r *memVectorRepo) SimilaritySearch(_ context.Context, ownerID, _ string, k int) ([]model.TranscriptChunk, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	if r.hits != nil {
		return r.hits, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.chunks[ownerID]
	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}

func (r *memVectorRepo) SearchAll(_ context.Context, ownerID string) ([]model.TranscriptChunk, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunks[ownerID], nil
}

// --- progress ---

type memProgressRepo struct {
	mu       sync.Mutex
	records  map[string]model.BatchProgress
	history  map[string][]model.BatchProgress
	writeErr error
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{
		records: make(map[string]model.BatchProgress),
		history: make(map[string][]model.BatchProgress),
	}
}

func (r *memProgressRepo) Get(_ context.Context, ownerID string) (*model.BatchProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memProgressRepo) Replace(_ context.Context, ownerID string, p *model.BatchProgress) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[ownerID] = *p
	r.history[ownerID] = append(r.history[ownerID], *p)
	return nil
}

// --- chat log ---

type memChatLog struct {
	mu    sync.Mutex
	lines map[string][]string
	err   error
}

func newMemChatLog() *memChatLog {
	return &memChatLog{lines: make(map[string][]string)}
}

func (l *memChatLog) Append(_ context.Context, ownerID, sender, message string) error {
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[ownerID] = append(l.lines[ownerID], sender+": "+message)
	return nil
}

// --- AI service ---

// fakeAI answers by matching substrings of the last message against a
// scripted table, checked in insertion order.
type fakeAI struct {
	mu      sync.Mutex
	rules   []aiRule
	calls   []string // last-message content per call
	callErr error
}

type aiRule struct {
	contains string
	reply    string
}

func newFakeAI() *fakeAI { return &fakeAI{} }

func (f *fakeAI) on(contains, reply string) *fakeAI {
	f.rules = append(f.rules, aiRule{contains: contains, reply: reply})
	return f
}

func (f *fakeAI) Chat(_ context.Context, _ string, messages []adapter.Message) (string, error) {
	if f.callErr != nil {
		return "", f.callErr
	}
	last := messages[len(messages)-1].Content
	f.mu.Lock()
	f.calls = append(f.calls, last)
	f.mu.Unlock()
	for _, r := range f.rules {
		if strings.Contains(last, r.contains) {
			return r.reply, nil
		}
	}
	return "fallback reply", nil
}

// --- image generation ---

type fakeImage struct {
	url string
	err error
}

func (f *fakeImage) Generate(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://img.example/generated.png", nil
}

// --- job runner ---

// syncRunner executes jobs inline so tests observe final state without
// synchronization.
type syncRunner struct {
	errs []error
}

func (r *syncRunner) Submit(ctx context.Context, _ string, job func(ctx context.Context) error) {
	r.errs = append(r.errs, job(ctx))
}
