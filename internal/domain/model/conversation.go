// File: internal/domain/model/conversation.go
package model

import (
	"regexp"
	"time"
)

// ConversationTurn is one (role, message) entry in an owner's memory.
type ConversationTurn struct {
	Role    string // "user" | "assistant"
	Content string
}

// ConversationMemory is the ordered per-owner chat memory consumed by the
// agent's prompts. Callers are expected to hold their own lock; the type
// itself is not goroutine safe.
type ConversationMemory struct {
	turns []ConversationTurn
}

func NewConversationMemory() *ConversationMemory { return &ConversationMemory{} }

func (m *ConversationMemory) AddUser(content string) {
	m.turns = append(m.turns, ConversationTurn{Role: "user", Content: content})
}

func (m *ConversationMemory) AddAssistant(content string) {
	m.turns = append(m.turns, ConversationTurn{Role: "assistant", Content: content})
}

// Recent returns up to n most recent turns, oldest first.
func (m *ConversationMemory) Recent(n int) []ConversationTurn {
	if n <= 0 || n > len(m.turns) {
		n = len(m.turns)
	}
	out := make([]ConversationTurn, n)
	copy(out, m.turns[len(m.turns)-n:])
	return out
}

func (m *ConversationMemory) Len() int { return len(m.turns) }

// answerLine matches the labeled correct-answer lines the quiz prompt asks
// the model to emit, e.g. "Answer: b".
var answerLine = regexp.MustCompile(`Answer: [a-d](\n|$)`)

// QuizRecord holds the latest generated quiz for an owner, answers included.
// No history is kept; generation overwrites the previous record.
type QuizRecord struct {
	FullQuiz    string
	GeneratedAt time.Time
}

// Masked returns the quiz with every "Answer: <letter>" line stripped,
// suitable for showing to the user.
func (q QuizRecord) Masked() string {
	return answerLine.ReplaceAllString(q.FullQuiz, "$1")
}

// CountAnswerLines reports how many labeled answer lines a quiz text carries.
func CountAnswerLines(quiz string) int {
	return len(answerLine.FindAllString(quiz, -1))
}
