// File: internal/usecase/session_state.go
package usecase

import (
	"sync"
	"time"

	"video-ai-tutor/internal/domain/model"
)

// SessionStore keeps the per-owner conversational state: the rolling memory
// fed back into prompts, and the most recent quiz with its answer key. State
// is process-local; losing it resets the conversation, not the index.
type SessionStore struct {
	mu      sync.Mutex
	byOwner map[string]*sessionState
}

type sessionState struct {
	memory model.ConversationMemory
	quiz   *model.QuizRecord
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byOwner: make(map[string]*sessionState)}
}

func (s *SessionStore) state(ownerID string) *sessionState {
	st, ok := s.byOwner[ownerID]
	if !ok {
		st = &sessionState{}
		s.byOwner[ownerID] = st
	}
	return st
}

// History returns up to n of the owner's most recent turns, oldest first.
func (s *SessionStore) History(ownerID string, n int) []model.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ownerID).memory.Recent(n)
}

// AppendTurn records one user/assistant exchange.
func (s *SessionStore) AppendTurn(ownerID, user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	st.memory.AddUser(user)
	st.memory.AddAssistant(assistant)
}

// SetQuiz replaces the owner's active quiz with the full, unredacted text.
func (s *SessionStore) SetQuiz(ownerID, fullQuiz string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(ownerID).quiz = &model.QuizRecord{
		FullQuiz:    fullQuiz,
		GeneratedAt: time.Now(),
	}
}

// Quiz returns the owner's active quiz, if one has been generated.
func (s *SessionStore) Quiz(ownerID string) (*model.QuizRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.state(ownerID).quiz
	return q, q != nil
}
