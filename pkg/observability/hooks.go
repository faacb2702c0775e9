package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/sprig/pkg/domain"
)

// LogHooks returns hooks that write every lifecycle event to logger at Info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.InfoContext(ctx, "answer",
				"node_id", e.NodeID,
				"option", e.Option,
				"previous", e.Previous,
				"cleared", len(e.Cleared),
			)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.InfoContext(ctx, "reject",
				"node_id", e.NodeID,
				"option", e.Option,
				"reason", RejectReason(e.Err),
			)
		},
		OnSeed: func(ctx context.Context, e *domain.SeedEvent) {
			if len(e.Dropped) == 0 {
				return
			}
			logger.InfoContext(ctx, "seed", "restored", e.Restored, "dropped", e.Dropped)
		},
	}
}

// Combine fans each event out to every hook set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.OnAnswer != nil {
			prev, next := out.OnAnswer, h.OnAnswer
			out.OnAnswer = func(ctx context.Context, e *domain.AnswerEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnReject != nil {
			prev, next := out.OnReject, h.OnReject
			out.OnReject = func(ctx context.Context, e *domain.RejectEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnSeed != nil {
			prev, next := out.OnSeed, h.OnSeed
			out.OnSeed = func(ctx context.Context, e *domain.SeedEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
