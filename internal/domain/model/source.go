// File: internal/domain/model/source.go
package model

import "path/filepath"

// MaxSourceDurationSeconds is the hard cap on accepted video length (30 minutes).
const MaxSourceDurationSeconds int64 = 1800

// IngestMode selects how a raw input value is resolved into sources.
type IngestMode string

const (
	ModeUpload    IngestMode = "upload"
	ModeTopic     IngestMode = "topic"
	ModePlaylist  IngestMode = "playlist"
	ModeSingleURL IngestMode = "single_url"
)

// SourceOrigin distinguishes remote URLs from already-local files.
type SourceOrigin string

const (
	SourceOriginURL  SourceOrigin = "url"
	SourceOriginFile SourceOrigin = "file"
)

// Source is one retrievable audio input accepted into a batch.
// DurationSeconds is 0 when unknown, which is allowed only for local uploads.
type Source struct {
	Origin          SourceOrigin
	RawValue        string
	DurationSeconds int64
}

func NewURLSource(url string, durationSeconds int64) Source {
	return Source{Origin: SourceOriginURL, RawValue: url, DurationSeconds: durationSeconds}
}

func NewFileSource(path string) Source {
	return Source{Origin: SourceOriginFile, RawValue: path}
}

func (s Source) Remote() bool { return s.Origin == SourceOriginURL }

// DisplayName is the human-readable label published while the source is in flight:
// the URL itself for remote sources, the base filename for local files.
func (s Source) DisplayName() string {
	if s.Remote() {
		return s.RawValue
	}
	return filepath.Base(s.RawValue)
}

// ValidDuration reports whether a probed duration passes the batch policy.
// The boundary value 1800 is accepted.
func ValidDuration(seconds int64) bool {
	return seconds <= MaxSourceDurationSeconds
}
