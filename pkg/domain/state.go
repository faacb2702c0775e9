package domain

import "maps"

// Answers maps a node id to the option chosen at that node.
type Answers map[string]string

// Clone returns an independent copy. A nil receiver yields an empty map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	maps.Copy(out, a)
	return out
}

// State represents the persisted snapshot of a form session.
// The engine never stores it; hosts save it and re-seed an engine from it.
type State struct {
	SessionID string  `json:"session_id"`
	Answers   Answers `json:"answers"`

	// Revision counts accepted answers. Rejected answers leave it untouched.
	Revision int `json:"revision"`
}

// NewState creates an empty session snapshot.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Answers:   make(Answers),
	}
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = s.Answers.Clone()
	return &c
}
