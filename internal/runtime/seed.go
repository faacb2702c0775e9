package runtime

import (
	"context"
	"sort"
	"time"

	"github.com/aretw0/sprig/pkg/domain"
)

// Seed restores answers and announces the result through the logger and the
// OnSeed hook. Returns the dropped ids, sorted.
func (e *Engine) Seed(ctx context.Context, answers domain.Answers) []string {
	dropped := e.Restore(answers)
	e.AnnounceSeed(ctx, e.store.Len(), dropped)
	return dropped
}

// Restore replaces the Selection Store with the subset of answers that is
// consistent with the tree: entries are replayed top-down along visible
// paths, and anything unreachable, unknown, or naming an option the node no
// longer declares is dropped. Nothing is logged or emitted. Returns the
// dropped ids, sorted.
func (e *Engine) Restore(answers domain.Answers) []string {
	e.store.reset()

	starts := e.starts()
	stack := make([]*domain.Node, 0, len(starts))
	for i := len(starts) - 1; i >= 0; i-- {
		stack = append(stack, starts[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		opt, ok := answers[n.ID]
		if !ok || !n.HasOption(opt) {
			continue
		}
		if err := e.store.set(n.ID, opt); err != nil {
			continue
		}
		active := e.activator.Active(n, opt)
		for i := len(active) - 1; i >= 0; i-- {
			stack = append(stack, active[i])
		}
	}

	var dropped []string
	for id := range answers {
		if _, ok := e.store.Get(id); !ok {
			dropped = append(dropped, id)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// AnnounceSeed reports a restore of restored answers that dropped the given ids.
func (e *Engine) AnnounceSeed(ctx context.Context, restored int, dropped []string) {
	if len(dropped) > 0 {
		e.logger.Info("Dropped stale answers while seeding", "dropped", dropped)
	}
	if e.hooks.OnSeed != nil {
		e.hooks.OnSeed(ctx, &domain.SeedEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSeed},
			Restored:  restored,
			Dropped:   dropped,
		})
	}
}
