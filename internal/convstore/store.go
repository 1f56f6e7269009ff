package convstore

import (
	"sync"

	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"go.uber.org/zap"
)

// Store maps a caller phone number to its current Next-AGI conversation id.
// Entries live for the process lifetime, there is no eviction and no
// persistence. Writes are last-write-wins: overlapping utterance tasks for
// the same caller may race and the task that finishes last keeps its id.
type Store struct {
	mutex         sync.RWMutex
	conversations map[string]string
}

// New creates an empty conversation store.
func New() *Store {
	return &Store{conversations: make(map[string]string)}
}

// Get returns the stored conversation id for the caller, if any.
func (s *Store) Get(caller string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	id, ok := s.conversations[caller]
	return id, ok
}

// Set stores the conversation id for the caller, replacing any previous one.
func (s *Store) Set(caller, conversationID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.conversations[caller] = conversationID
	logger.Base().Debug("conversation id stored",
		zap.String("caller", caller),
		zap.String("conversation_id", conversationID))
}

// Snapshot returns a copy of the current caller -> conversation id mapping.
func (s *Store) Snapshot() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]string, len(s.conversations))
	for caller, id := range s.conversations {
		out[caller] = id
	}
	return out
}

// Len returns the number of tracked callers.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.conversations)
}
