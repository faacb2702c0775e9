package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
)

// Answer records option at nodeID and invalidates every answer recorded
// beneath it. It is the only mutation entry point of the engine.
//
// The store is left untouched when the node is unknown, the option is not
// declared by the node, or the node is not visible under the current answers.
func (e *Engine) Answer(ctx context.Context, nodeID, option string) error {
	n, ok := e.tree.Node(nodeID)
	if !ok {
		return e.reject(ctx, nodeID, option, fmt.Errorf("%w: %q", domain.ErrUnknownNode, nodeID))
	}
	if !n.HasOption(option) {
		return e.reject(ctx, nodeID, option, fmt.Errorf("%w: node %q has no option %q", domain.ErrInvalidOption, nodeID, option))
	}
	if !e.isVisible(n) {
		return e.reject(ctx, nodeID, option, fmt.Errorf("%w: %q", domain.ErrHiddenNode, nodeID))
	}

	previous, _ := e.store.Get(nodeID)
	if err := e.store.set(nodeID, option); err != nil {
		return e.reject(ctx, nodeID, option, err)
	}
	cleared := e.invalidate(n)

	e.logger.Debug("Answer recorded",
		"node_id", nodeID,
		"option", option,
		"previous", previous,
		"cleared", cleared,
	)
	e.emitAnswer(ctx, nodeID, option, previous, cleared)
	return nil
}

// invalidate clears the answer of every strict descendant of n, including
// branches that were never visible. Returns the ids that actually had an entry.
func (e *Engine) invalidate(n *domain.Node) []string {
	var cleared []string
	for _, d := range e.tree.Descendants(n) {
		if e.store.clear(d.ID) {
			cleared = append(cleared, d.ID)
		}
	}
	return cleared
}

func (e *Engine) reject(ctx context.Context, nodeID, option string, err error) error {
	e.logger.Warn("Answer rejected",
		"node_id", nodeID,
		"option", option,
		"err", err,
	)
	e.emitReject(ctx, nodeID, option, err)
	return err
}
