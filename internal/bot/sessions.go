package bot

import "sync"

// Sessions stores the most recent hint text per chat. Last writer wins;
// entries have no eviction and live for the lifetime of the process, so a
// hint stays available for every later attachment from the same chat.
type Sessions struct {
	mu    sync.Mutex
	hints map[int64]string
}

func NewSessions() *Sessions {
	return &Sessions{hints: make(map[int64]string)}
}

// SetHint records text as the chat's current hint, replacing any prior one.
func (s *Sessions) SetHint(chatID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints[chatID] = text
}

// Hint returns the chat's current hint text, empty when none was sent.
func (s *Sessions) Hint(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hints[chatID]
}
