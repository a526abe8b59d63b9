// File: internal/domain/model/domain_model_test.go
package model

import (
	"strings"
	"testing"
)

func TestValidDuration_Boundary(t *testing.T) {
	cases := []struct {
		seconds int64
		want    bool
	}{
		{0, true},
		{1799, true},
		{1800, true}, // boundary is accepted
		{1801, false},
		{7200, false},
	}
	for _, c := range cases {
		if got := ValidDuration(c.seconds); got != c.want {
			t.Errorf("ValidDuration(%d) = %v, want %v", c.seconds, got, c.want)
		}
	}
}

func TestBatchProgress_Percent(t *testing.T) {
	cases := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0}, // empty batch is 0, not NaN
		{0, 4, 0},
		{1, 4, 25},
		{3, 4, 75},
		{4, 4, 100},
	}
	for _, c := range cases {
		p := BatchProgress{Completed: c.completed, Total: c.total}
		if got := p.Percent(); got != c.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", c.completed, c.total, got, c.want)
		}
	}
}

func TestQuizRecord_Masked(t *testing.T) {
	full := "1. Question one?\na) x\nb) y\nAnswer: a\n2. Question two?\nc) z\nd) w\nAnswer: d"
	masked := QuizRecord{FullQuiz: full}.Masked()

	if CountAnswerLines(masked) != 0 {
		t.Errorf("masked quiz still has answer lines:\n%s", masked)
	}
	if !strings.Contains(masked, "Question one?") || !strings.Contains(masked, "Question two?") {
		t.Errorf("masking removed question text:\n%s", masked)
	}
	if CountAnswerLines(full) != 2 {
		t.Errorf("CountAnswerLines(full) = %d, want 2", CountAnswerLines(full))
	}
}

func TestQuizRecord_MaskedLeavesUnlabeledTextAlone(t *testing.T) {
	full := "The answer: always read the question.\nAnswer: e\nAnswer: b"
	masked := QuizRecord{FullQuiz: full}.Masked()
	// "Answer: e" is outside the a-d alphabet and "answer:" lowercase is prose.
	if !strings.Contains(masked, "The answer: always read the question.") {
		t.Errorf("prose mangled:\n%s", masked)
	}
	if !strings.Contains(masked, "Answer: e") {
		t.Errorf("out-of-alphabet line must survive:\n%s", masked)
	}
	if strings.Contains(masked, "Answer: b") {
		t.Errorf("labeled line must be stripped:\n%s", masked)
	}
}

func TestSource_DisplayName(t *testing.T) {
	u := NewURLSource("https://youtu.be/abc", 100)
	if u.DisplayName() != "https://youtu.be/abc" {
		t.Errorf("url display = %q", u.DisplayName())
	}
	f := NewFileSource("/uploads/owner/lecture 3.mp3")
	if f.DisplayName() != "lecture 3.mp3" {
		t.Errorf("file display = %q", f.DisplayName())
	}
}

func TestConversationMemory_Recent(t *testing.T) {
	m := NewConversationMemory()
	m.AddUser("q1")
	m.AddAssistant("a1")
	m.AddUser("q2")
	m.AddAssistant("a2")

	recent := m.Recent(2)
	if len(recent) != 2 || recent[0].Content != "q2" || recent[1].Content != "a2" {
		t.Errorf("Recent(2) = %+v", recent)
	}
	if got := m.Recent(0); len(got) != 4 {
		t.Errorf("Recent(0) should return everything, got %d", len(got))
	}
}
