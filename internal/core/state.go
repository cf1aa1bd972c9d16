package core

import (
	"strings"
	"sync"

	"github.com/Rorical/BooklyDesk/internal/models"
)

// Store holds the conversation for one session: the transcript, the draft input and
// whether an exchange is outstanding.
type Store struct {
	mu           sync.RWMutex
	turns        []models.Turn
	pendingInput string
	inFlight     bool
}

func NewStore() *Store {
	return &Store{
		turns: []models.Turn{models.GreetingTurn()},
	}
}

func (s *Store) Transcript() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Turn, len(s.turns))
	copy(result, s.turns)
	return result
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

func (s *Store) PendingInput() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingInput
}

func (s *Store) SetPendingInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingInput = text
}

func (s *Store) IsInFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight
}

// BeginSubmission appends the trimmed input as a user turn and marks the store in
// flight. It returns the transcript to send, or false when the input is blank or an
// exchange is already outstanding; a rejected call changes nothing.
func (s *Store) BeginSubmission(raw string) ([]models.Turn, bool) {
	text := strings.TrimSpace(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" || s.inFlight {
		return nil, false
	}

	s.turns = append(s.turns, models.NewUserTurn(text))
	s.pendingInput = ""
	s.inFlight = true

	snapshot := make([]models.Turn, len(s.turns))
	copy(snapshot, s.turns)
	return snapshot, true
}

// CompleteSubmission appends the reply for the outstanding exchange and clears the
// in-flight flag. A reply with nothing in flight is dropped.
func (s *Store) CompleteSubmission(reply models.Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inFlight {
		return false
	}
	s.turns = append(s.turns, reply)
	s.inFlight = false
	return true
}
