package adapter

import "context"

// VideoInfo is the probed metadata for a single remote video.
type VideoInfo struct {
	URL             string
	Title           string
	DurationSeconds int64
}

// PlaylistEntry is one member of a flat (non-recursive) playlist extraction.
// DurationSeconds may be 0 when the listing did not carry it; callers probe
// the member URL in that case.
type PlaylistEntry struct {
	URL             string
	Title           string
	DurationSeconds int64
}

// VideoResolverAdapter is the port for the video/playlist resolver service.
type VideoResolverAdapter interface {
	Probe(ctx context.Context, url string) (*VideoInfo, error)
	Playlist(ctx context.Context, url string) ([]PlaylistEntry, error)
}

// AudioFetchAdapter downloads a remote source into a local audio artifact.
// destPrefix is the extensionless destination path; the adapter appends an
// extension matching the chosen stream and returns the full path.
type AudioFetchAdapter interface {
	Fetch(ctx context.Context, url, destPrefix string) (string, error)
}

// TopicSearchAdapter is the port for the topical video search service. The
// result is a text blob with embedded watch URLs; the resolver extracts them.
type TopicSearchAdapter interface {
	Search(ctx context.Context, topic string, maxResults int) (string, error)
}
