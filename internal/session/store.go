// Package session holds the ephemeral per-user conversation state.
//
// Sessions live in process memory only. A restart drops every in-progress
// dialogue; committed profiles are unaffected. Mid-dialogue state carries
// no persistence guarantee.
package session

import "sync"

// Mode discriminates the commit path of a conversation. Exactly one
// handler runs per (step, mode) pair.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Step names a conversation state awaiting one input.
type Step string

const (
	StepName    Step = "name"
	StepAge     Step = "age"
	StepGender  Step = "gender"
	StepFaculty Step = "faculty"
	StepCourse  Step = "course"
	StepBio     Step = "bio"
	StepPhoto   Step = "photo"
)

// Draft accumulates validated profile fields during creation.
type Draft struct {
	Name    string
	Age     int
	Gender  string
	Faculty string
	Course  int
	Bio     string
	PhotoID string
}

// Session is one user's open dialogue.
type Session struct {
	Mode      Mode
	Step      Step
	Draft     Draft
	EditField Step // set in edit mode; equals Step for the single input
}

// Store maps user ids to open sessions. Safe for concurrent use; there is
// at most one session per user, and starting a new one overwrites it.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the open session for a user, or nil.
func (s *Store) Get(userID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Put opens (or replaces) the user's session.
func (s *Store) Put(userID int64, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Clear discards the user's session if any.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
