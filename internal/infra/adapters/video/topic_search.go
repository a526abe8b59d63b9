// File: internal/infra/adapters/video/topic_search.go
package video

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"video-ai-tutor/internal/domain/ports/adapter"
)

var _ adapter.TopicSearchAdapter = (*YouTubeTopicSearch)(nil)

var videoIDPattern = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)

// YouTubeTopicSearch queries the YouTube results page for a topic and returns
// a text blob of the embedded watch URLs, one per line.
type YouTubeTopicSearch struct {
	baseURL string
	client  *http.Client
}

func NewYouTubeTopicSearch(baseURL string) *YouTubeTopicSearch {
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	return &YouTubeTopicSearch{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *YouTubeTopicSearch) Search(ctx context.Context, topic string, maxResults int) (string, error) {
	if maxResults <= 0 {
		maxResults = 6
	}
	u := fmt.Sprintf("%s/results?search_query=%s", s.baseURL, url.QueryEscape(topic))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("topic search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("topic search: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var lines []string
	for _, m := range videoIDPattern.FindAllStringSubmatch(string(body), -1) {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		lines = append(lines, watchURL(id))
		if len(lines) >= maxResults {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}
