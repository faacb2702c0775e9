package domain

import "sort"

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Set contains answers that were added or changed.
	Set map[string]string `json:"set,omitempty"`

	// Cleared lists node ids whose answers were removed, sorted.
	Cleared []string `json:"cleared,omitempty"`

	Revision *int `json:"revision,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	var oldAnswers Answers
	if oldState != nil {
		oldAnswers = oldState.Answers
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	for id, opt := range newState.Answers {
		if prev, ok := oldAnswers[id]; !ok || prev != opt {
			if diff.Set == nil {
				diff.Set = make(map[string]string)
			}
			diff.Set[id] = opt
		}
	}
	for id := range oldAnswers {
		if _, ok := newState.Answers[id]; !ok {
			diff.Cleared = append(diff.Cleared, id)
		}
	}
	sort.Strings(diff.Cleared)

	if oldState == nil || oldState.Revision != newState.Revision {
		rev := newState.Revision
		diff.Revision = &rev
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return len(d.Set) == 0 && len(d.Cleared) == 0 && d.Revision == nil
}
