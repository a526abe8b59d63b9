// File: internal/usecase/agent_uc_test.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"video-ai-tutor/internal/domain/model"
)

type agentFixture struct {
	ai       *fakeAI
	image    *fakeImage
	index    *memVectorRepo
	chatLog  *memChatLog
	sessions *SessionStore
	uc       *agentUC
}

func newAgentFixture() *agentFixture {
	log := zerolog.Nop()
	f := &agentFixture{
		ai:       newFakeAI(),
		image:    &fakeImage{url: "https://img.test/map.png"},
		index:    newMemVectorRepo(),
		chatLog:  newMemChatLog(),
		sessions: NewSessionStore(),
	}
	f.uc = NewAgentUseCase(f.ai, f.image, f.index, f.chatLog, f.sessions, "test-model", &log)
	return f
}

func (f *agentFixture) indexChunks(owner string, texts ...string) {
	var chunks []model.TranscriptChunk
	for i, t := range texts {
		chunks = append(chunks, model.TranscriptChunk{Text: t, SourceRef: "src", ChunkIndex: i})
	}
	_ = f.index.Append(context.Background(), owner, chunks)
}

// sampleQuiz mirrors the format the quiz prompt demands: ten numbered
// questions, options a)-d), one labeled answer line each.
var sampleQuiz = func() string {
	var sb strings.Builder
	answers := []string{"b", "c", "a", "d", "b", "a", "c", "d", "a", "b"}
	for i, ans := range answers {
		fmt.Fprintf(&sb, "%d. Question number %d?\na) first\nb) second\nc) third\nd) fourth\nAnswer: %s\n", i+1, i+1, ans)
	}
	return sb.String()
}()

func TestChat_AnswerFromDocs_Grounded(t *testing.T) {
	f := newAgentFixture()
	f.indexChunks("alice", "goroutines are cheap", "channels synchronize")
	// Router picks the QA tool; the grounded call carries the context block.
	f.ai.on("Question:", "Goroutines are cheap to start.")

	reply, err := f.uc.Chat(context.Background(), "alice", "what are goroutines?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Goroutines are cheap to start." {
		t.Errorf("reply = %q", reply)
	}

	// The grounded prompt must embed the retrieved chunks.
	last := f.ai.calls[len(f.ai.calls)-1]
	if !strings.Contains(last, "goroutines are cheap") {
		t.Errorf("grounded prompt missing context: %q", last)
	}

	turns := f.sessions.History("alice", 0)
	if len(turns) != 2 || turns[0].Content != "what are goroutines?" {
		t.Errorf("memory not updated: %+v", turns)
	}

	lines := f.chatLog.lines["alice"]
	if len(lines) != 2 ||
		lines[0] != "User: what are goroutines?" ||
		lines[1] != "Bot: Goroutines are cheap to start." {
		t.Errorf("chat log = %v", lines)
	}
}

func TestChat_AnswerFromDocs_EmptyIndexDeclines(t *testing.T) {
	f := newAgentFixture()

	reply, err := f.uc.Chat(context.Background(), "alice", "what is in my videos?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != declinePhrase {
		t.Errorf("reply = %q, want decline phrase", reply)
	}
	if !f.index.created["alice"] {
		t.Error("chat must ensure the owner's index exists")
	}
	turns := f.sessions.History("alice", 0)
	if len(turns) != 2 || turns[1].Content != declinePhrase {
		t.Errorf("declined turn must still be remembered: %+v", turns)
	}
}

func TestChat_GenerateQuiz_ReturnsMaskedAndStoresFull(t *testing.T) {
	f := newAgentFixture()
	f.indexChunks("alice", "transcript text")
	f.ai.on("quiz", string(IntentGenerateQuiz))
	f.ai.on("Transcript:", sampleQuiz)

	reply, err := f.uc.Chat(context.Background(), "alice", "give me a quiz")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if model.CountAnswerLines(reply) != 0 {
		t.Errorf("masked quiz leaked answer lines:\n%s", reply)
	}
	if !strings.Contains(reply, "Question number 1?") || !strings.Contains(reply, "Question number 10?") {
		t.Errorf("masked quiz lost questions:\n%s", reply)
	}

	q, ok := f.sessions.Quiz("alice")
	if !ok {
		t.Fatal("full quiz not stored")
	}
	if model.CountAnswerLines(q.FullQuiz) != 10 {
		t.Errorf("stored quiz should keep all 10 answer lines, got %d", model.CountAnswerLines(q.FullQuiz))
	}

	// The synthetic memory turn uses the masked text, never the answers.
	turns := f.sessions.History("alice", 0)
	if len(turns) != 2 || turns[0].Content != "Generate Quiz" {
		t.Fatalf("memory turns = %+v", turns)
	}
	if model.CountAnswerLines(turns[1].Content) != 0 {
		t.Error("memory must hold the masked quiz")
	}
}

func TestChat_GenerateQuiz_EmptyCorpus(t *testing.T) {
	f := newAgentFixture()
	f.ai.on("quiz", string(IntentGenerateQuiz))

	reply, err := f.uc.Chat(context.Background(), "alice", "quiz me")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.HasPrefix(reply, "❌ No content indexed yet") {
		t.Errorf("reply = %q", reply)
	}
	if _, ok := f.sessions.Quiz("alice"); ok {
		t.Error("no quiz should be stored for an empty corpus")
	}
}

func TestChat_QuizAnswers(t *testing.T) {
	f := newAgentFixture()
	f.ai.on("answers", string(IntentQuizAnswers))

	// Before any quiz exists.
	reply, err := f.uc.Chat(context.Background(), "alice", "show me the answers")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "❌ No quiz has been generated yet. Please generate a quiz first." {
		t.Errorf("reply = %q", reply)
	}

	f.sessions.SetQuiz("alice", sampleQuiz)
	reply, err = f.uc.Chat(context.Background(), "alice", "show me the answers")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.HasPrefix(reply, "✅ Here are the questions with answers:") {
		t.Errorf("reply = %q", reply)
	}
	if model.CountAnswerLines(reply) != 10 {
		t.Errorf("answers reply must keep the answer lines, got %d", model.CountAnswerLines(reply))
	}
}

func TestChat_QuizIsOwnerScoped(t *testing.T) {
	f := newAgentFixture()
	f.ai.on("answers", string(IntentQuizAnswers))
	f.sessions.SetQuiz("alice", sampleQuiz)

	reply, err := f.uc.Chat(context.Background(), "bob", "show me the answers")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.HasPrefix(reply, "❌ No quiz has been generated yet") {
		t.Errorf("bob must not see alice's quiz, got %q", reply)
	}
}

func TestChat_Summarize(t *testing.T) {
	f := newAgentFixture()
	f.indexChunks("alice", "part one", "part two")
	f.ai.on("summary", string(IntentSummarize))
	f.ai.on("Summarize the following", "Central theme: Go.")

	reply, err := f.uc.Chat(context.Background(), "alice", "give me a summary")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Central theme: Go." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_Mindmap_Success(t *testing.T) {
	f := newAgentFixture()
	f.indexChunks("alice", "content about go")
	f.ai.on("mind map image", string(IntentMindmap))
	f.ai.on("Summarize the following", "Outline of Go topics")
	f.ai.on("Condense the following", "Go Concurrency Basics")

	reply, err := f.uc.Chat(context.Background(), "alice", "draw me a mind map image")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "🖼️ Mindmap image generated! View here: https://img.test/map.png" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_Mindmap_ProviderFailureIsReported(t *testing.T) {
	f := newAgentFixture()
	f.indexChunks("alice", "content")
	f.image.err = errors.New(`{"error":"quota exceeded"}`)
	f.ai.on("mind map image", string(IntentMindmap))
	f.ai.on("Summarize the following", "Outline")
	f.ai.on("Condense the following", "Topic")

	reply, err := f.uc.Chat(context.Background(), "alice", "draw me a mind map image")
	if err != nil {
		t.Fatalf("mindmap provider failure must not fail the turn: %v", err)
	}
	if !strings.HasPrefix(reply, "❌ Error generating mindmap image:") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "quota exceeded") {
		t.Errorf("provider body must be surfaced: %q", reply)
	}
}

func TestChat_ToolErrorStillLogged(t *testing.T) {
	f := newAgentFixture()
	f.index.searchErr = errors.New("vector store down")

	reply, err := f.uc.Chat(context.Background(), "alice", "any question")
	if err == nil {
		t.Fatal("expected the tool error to propagate")
	}
	if !strings.HasPrefix(reply, "❌ Error:") {
		t.Errorf("reply = %q", reply)
	}
	lines := f.chatLog.lines["alice"]
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "Bot: ❌ Error:") {
		t.Errorf("error reply must still reach the chat log: %v", lines)
	}
}

func TestChat_UnknownRouteFallsBackToQA(t *testing.T) {
	f := newAgentFixture()
	f.indexChunks("alice", "some context")
	f.ai.on("weird input", "tool_that_does_not_exist")
	f.ai.on("Question:", "grounded answer")

	reply, err := f.uc.Chat(context.Background(), "alice", "weird input")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "grounded answer" {
		t.Errorf("reply = %q", reply)
	}
}
