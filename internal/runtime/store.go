package runtime

import (
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
)

// Store is the Selection Store: node id -> chosen option.
// Writes are only reachable through Engine.Answer and Engine.Seed so that
// no descendant of an unanswered node is ever observed with an entry.
type Store struct {
	tree    *domain.Tree
	answers map[string]string
}

// NewStore creates an empty store bound to tree.
func NewStore(tree *domain.Tree) *Store {
	return &Store{
		tree:    tree,
		answers: make(map[string]string),
	}
}

// Get returns the current option for nodeID, or false if unanswered.
func (s *Store) Get(nodeID string) (string, bool) {
	opt, ok := s.answers[nodeID]
	return opt, ok
}

// set records option at nodeID. The option must be declared by the node.
func (s *Store) set(nodeID, option string) error {
	n, ok := s.tree.Node(nodeID)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownNode, nodeID)
	}
	if !n.HasOption(option) {
		return fmt.Errorf("%w: node %q has no option %q", domain.ErrInvalidOption, nodeID, option)
	}
	s.answers[nodeID] = option
	return nil
}

// clear removes the entry for nodeID. Idempotent.
func (s *Store) clear(nodeID string) bool {
	if _, ok := s.answers[nodeID]; !ok {
		return false
	}
	delete(s.answers, nodeID)
	return true
}

func (s *Store) reset() {
	s.answers = make(map[string]string)
}

// Len returns the number of recorded answers.
func (s *Store) Len() int {
	return len(s.answers)
}

// Snapshot returns a copy of the recorded answers.
func (s *Store) Snapshot() domain.Answers {
	return domain.Answers(s.answers).Clone()
}
