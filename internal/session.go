package internal

import (
	"fmt"
	"sync"
	"time"
)

// FileState is the per-file processing state.
type FileState int

const (
	StateUploaded FileState = iota
	StateTranscribing
	StateTranscribed
	StateSummarizing
	StateSummarized
)

// String returns a human-readable representation of the state
func (s FileState) String() string {
	switch s {
	case StateUploaded:
		return "uploaded"
	case StateTranscribing:
		return "transcribing"
	case StateTranscribed:
		return "transcribed"
	case StateSummarizing:
		return "summarizing"
	case StateSummarized:
		return "summarized"
	default:
		return "unknown"
	}
}

// FileRecord is the typed per-file session state: where the file is in the
// pipeline plus the current topic and summary.
type FileRecord struct {
	State     FileState
	Extension string
	Topic     string
	Summary   string
	UpdatedAt time.Time
}

// SessionStore tracks per-identity file records for one interactive
// session. It is process-local and ephemeral; persisted artifacts live in
// the Store.
type SessionStore struct {
	mu    sync.Mutex
	files map[ContentIdentity]*FileRecord
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{files: make(map[ContentIdentity]*FileRecord)}
}

// Track registers an identity as uploaded if it is not yet known.
func (s *SessionStore) Track(id ContentIdentity, ext string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		s.files[id] = &FileRecord{State: StateUploaded, Extension: ext, UpdatedAt: time.Now()}
	}
}

// Get returns a copy of the record for an identity.
func (s *SessionStore) Get(id ContentIdentity) (FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.files[id]
	if !ok {
		return FileRecord{}, false
	}
	return *record, true
}

// BeginTranscription moves uploaded -> transcribing. A file that is already
// transcribed (or further along) is not re-run.
func (s *SessionStore) BeginTranscription(id ContentIdentity) error {
	return s.transition(id, StateUploaded, StateTranscribing)
}

// FinishTranscription moves transcribing -> transcribed on success; on
// failure the file falls back to uploaded so the run can be retried.
func (s *SessionStore) FinishTranscription(id ContentIdentity, ok bool) {
	if ok {
		s.force(id, StateTranscribed)
	} else {
		s.force(id, StateUploaded)
	}
}

// BeginSummary moves transcribed -> summarizing.
func (s *SessionStore) BeginSummary(id ContentIdentity) error {
	return s.transition(id, StateTranscribed, StateSummarizing)
}

// FinishSummary records the result; on failure the file stays transcribed.
func (s *SessionStore) FinishSummary(id ContentIdentity, result SummaryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.files[id]
	if !ok {
		return
	}
	if result.Failed {
		record.State = StateTranscribed
	} else {
		record.State = StateSummarized
		record.Topic = result.Topic
		record.Summary = result.Summary
	}
	record.UpdatedAt = time.Now()
}

// MarkTranscribed records that a transcript already exists for an identity,
// e.g. when a cached transcript is found on disk.
func (s *SessionStore) MarkTranscribed(id ContentIdentity, ext string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.files[id]
	if !ok {
		record = &FileRecord{Extension: ext}
		s.files[id] = record
	}
	if record.State < StateTranscribed {
		record.State = StateTranscribed
		record.UpdatedAt = time.Now()
	}
}

// Clear drops all session state.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[ContentIdentity]*FileRecord)
}

func (s *SessionStore) transition(id ContentIdentity, from, to FileState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.files[id]
	if !ok {
		return fmt.Errorf("unknown file %s", id)
	}
	if record.State != from {
		return fmt.Errorf("file is %s, expected %s", record.State, from)
	}
	record.State = to
	record.UpdatedAt = time.Now()
	return nil
}

func (s *SessionStore) force(id ContentIdentity, state FileState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.files[id]; ok {
		record.State = state
		record.UpdatedAt = time.Now()
	}
}
