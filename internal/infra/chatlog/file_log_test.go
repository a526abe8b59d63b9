// File: internal/infra/chatlog/file_log_test.go
package chatlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAppend_WritesSenderPrefixedLines(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileChatLog(dir)
	if err != nil {
		t.Fatalf("NewFileChatLog: %v", err)
	}

	ctx := context.Background()
	if err := l.Append(ctx, "alice", "User", "what are goroutines?"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(ctx, "alice", "Bot", "Lightweight threads."); err != nil {
		t.Fatalf("Append: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "chat_history_alice.txt"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "User: what are goroutines?\nBot: Lightweight threads.\n"
	if string(b) != want {
		t.Errorf("log = %q, want %q", b, want)
	}
}

func TestAppend_SeparatesOwners(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileChatLog(dir)
	if err != nil {
		t.Fatalf("NewFileChatLog: %v", err)
	}

	ctx := context.Background()
	if err := l.Append(ctx, "alice", "User", "hi"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(ctx, "bob", "User", "hello"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "chat_history_bob.txt")); err != nil {
		t.Errorf("bob's log missing: %v", err)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "chat_history_alice.txt"))
	if string(b) != "User: hi\n" {
		t.Errorf("alice log = %q", b)
	}
}

func TestAppend_SanitizesOwnerID(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileChatLog(dir)
	if err != nil {
		t.Fatalf("NewFileChatLog: %v", err)
	}

	if err := l.Append(context.Background(), "../evil/owner", "User", "hi"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file inside the log dir, got %d", len(entries))
	}
	if entries[0].Name() != "chat_history____evil_owner.txt" {
		t.Errorf("file name = %q", entries[0].Name())
	}
}
