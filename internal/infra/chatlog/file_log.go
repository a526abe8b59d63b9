// File: internal/infra/chatlog/file_log.go
package chatlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"video-ai-tutor/internal/domain/ports/repository"
)

var _ repository.ChatLogRepository = (*FileChatLog)(nil)

// FileChatLog appends chat turns to one text file per owner, named
// chat_history_<owner>.txt, lines formatted "<Sender>: <Message>".
type FileChatLog struct {
	dir string
	mu  sync.Mutex
}

func NewFileChatLog(dir string) (*FileChatLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chatlog dir: %w", err)
	}
	return &FileChatLog{dir: dir}, nil
}

func (l *FileChatLog) Append(ctx context.Context, ownerID, sender, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path(ownerID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open chat log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s: %s\n", sender, message); err != nil {
		return fmt.Errorf("append chat log: %w", err)
	}
	return nil
}

func (l *FileChatLog) path(ownerID string) string {
	return filepath.Join(l.dir, "chat_history_"+sanitize(ownerID)+".txt")
}

// sanitize keeps owner ids safe to use as a filename component.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
