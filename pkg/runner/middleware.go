package runner

import (
	"context"
	"fmt"
	"strings"
)

// Change describes an answer about to be committed.
type Change struct {
	NodeID   string
	Option   string
	Previous string

	// Cleared lists the answers the change would remove, sorted.
	Cleared []string
}

// ChangeInterceptor is a middleware consulted before a change is committed.
// It returns true if the change should proceed.
type ChangeInterceptor func(ctx context.Context, change Change) (bool, error)

// MultiInterceptor chains multiple interceptors. The first refusal wins.
func MultiInterceptor(interceptors ...ChangeInterceptor) ChangeInterceptor {
	return func(ctx context.Context, change Change) (bool, error) {
		for _, interceptor := range interceptors {
			allowed, err := interceptor(ctx, change)
			if err != nil {
				return false, err
			}
			if !allowed {
				return false, nil
			}
		}
		return true, nil
	}
}

// ConfirmCascadeMiddleware asks the user before a change that clears other answers.
// Changes that clear nothing pass without a prompt.
func ConfirmCascadeMiddleware(handler IOHandler) ChangeInterceptor {
	return func(ctx context.Context, change Change) (bool, error) {
		if len(change.Cleared) == 0 {
			return true, nil
		}

		msg := fmt.Sprintf("Changing %q from %q to %q clears %d answer(s): %s\nContinue? [y/N]",
			change.NodeID, change.Previous, change.Option, len(change.Cleared), strings.Join(change.Cleared, ", "))
		if err := handler.SystemOutput(ctx, msg); err != nil {
			return false, err
		}

		input, err := handler.Input(ctx)
		if err != nil {
			return false, err
		}
		input = strings.TrimSpace(strings.ToLower(input))
		return input == "y" || input == "yes", nil
	}
}

// AutoApproveMiddleware allows everything.
func AutoApproveMiddleware() ChangeInterceptor {
	return func(ctx context.Context, change Change) (bool, error) {
		return true, nil
	}
}
