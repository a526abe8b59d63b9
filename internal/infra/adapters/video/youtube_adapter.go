// File: internal/infra/adapters/video/youtube_adapter.go
package video

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	ytdl "github.com/kkdai/youtube/v2"

	"video-ai-tutor/internal/domain/ports/adapter"
)

var (
	_ adapter.VideoResolverAdapter = (*YouTubeAdapter)(nil)
	_ adapter.AudioFetchAdapter    = (*YouTubeAdapter)(nil)
)

// YouTubeAdapter resolves video metadata, flattens playlists, and downloads
// the best available audio-only stream.
type YouTubeAdapter struct {
	client ytdl.Client
}

func NewYouTubeAdapter() *YouTubeAdapter {
	return &YouTubeAdapter{client: ytdl.Client{}}
}

func (y *YouTubeAdapter) Probe(ctx context.Context, url string) (*adapter.VideoInfo, error) {
	v, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}
	return &adapter.VideoInfo{
		URL:             url,
		Title:           v.Title,
		DurationSeconds: int64(v.Duration / time.Second),
	}, nil
}

// Playlist performs a flat, non-recursive extraction of the playlist members.
func (y *YouTubeAdapter) Playlist(ctx context.Context, url string) ([]adapter.PlaylistEntry, error) {
	pl, err := y.client.GetPlaylistContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist %s: %w", url, err)
	}
	entries := make([]adapter.PlaylistEntry, 0, len(pl.Videos))
	for _, e := range pl.Videos {
		entries = append(entries, adapter.PlaylistEntry{
			URL:             watchURL(e.ID),
			Title:           e.Title,
			DurationSeconds: int64(e.Duration / time.Second),
		})
	}
	return entries, nil
}

// Fetch downloads the highest-bitrate audio-only stream of url to
// destPrefix plus a format-matching extension.
func (y *YouTubeAdapter) Fetch(ctx context.Context, url, destPrefix string) (string, error) {
	v, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("get video %s: %w", url, err)
	}

	format, err := bestAudioFormat(v)
	if err != nil {
		return "", fmt.Errorf("select audio for %s: %w", url, err)
	}

	stream, _, err := y.client.GetStreamContext(ctx, v, format)
	if err != nil {
		return "", fmt.Errorf("get stream %s: %w", url, err)
	}
	defer stream.Close()

	path := destPrefix + extensionFor(format.MimeType)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, stream); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	return path, nil
}

// bestAudioFormat picks the highest-bitrate audio-only format.
func bestAudioFormat(v *ytdl.Video) (*ytdl.Format, error) {
	var audio []*ytdl.Format
	for i := range v.Formats {
		f := &v.Formats[i]
		if strings.HasPrefix(f.MimeType, "audio/") {
			audio = append(audio, f)
		}
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio formats available")
	}
	sort.Slice(audio, func(i, j int) bool { return audio[i].Bitrate > audio[j].Bitrate })
	return audio[0], nil
}

func extensionFor(mimeType string) string {
	if strings.Contains(mimeType, "mp4") {
		return ".m4a"
	}
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".audio"
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
