package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics()
	require.NoError(t, m.Register(reg))

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnAnswer(ctx, &domain.AnswerEvent{NodeID: "n", Option: "a", Cleared: []string{"x", "y"}})
	hooks.OnAnswer(ctx, &domain.AnswerEvent{NodeID: "n", Option: "b"})
	hooks.OnReject(ctx, &domain.RejectEvent{NodeID: "n", Err: fmt.Errorf("%w: n", domain.ErrHiddenNode)})
	hooks.OnSeed(ctx, &domain.SeedEvent{Dropped: []string{"gone"}})

	expected := `
# HELP sprig_answers_total Total number of accepted answers
# TYPE sprig_answers_total counter
sprig_answers_total{node_id="n"} 2
# HELP sprig_rejected_answers_total Total number of rejected answers by reason
# TYPE sprig_rejected_answers_total counter
sprig_rejected_answers_total{reason="hidden_node"} 1
# HELP sprig_seed_dropped_answers_total Total number of stale answers dropped while restoring sessions
# TYPE sprig_seed_dropped_answers_total counter
sprig_seed_dropped_answers_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"sprig_answers_total", "sprig_rejected_answers_total", "sprig_seed_dropped_answers_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "sprig_cascade_cleared_answers"))
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, observability.NewMetrics().Register(reg))
	assert.Error(t, observability.NewMetrics().Register(reg))
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "unknown_node", observability.RejectReason(domain.ErrUnknownNode))
	assert.Equal(t, "invalid_option", observability.RejectReason(fmt.Errorf("wrapped: %w", domain.ErrInvalidOption)))
	assert.Equal(t, "other", observability.RejectReason(nil))
}

func TestCombine(t *testing.T) {
	var order []string
	var buf bytes.Buffer
	hooks := observability.Combine(
		domain.LifecycleHooks{OnAnswer: func(context.Context, *domain.AnswerEvent) { order = append(order, "first") }},
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnAnswer: func(context.Context, *domain.AnswerEvent) { order = append(order, "second") }},
		observability.LogHooks(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	hooks.OnAnswer(context.Background(), &domain.AnswerEvent{NodeID: "n", Option: "a"})
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Contains(t, buf.String(), "node_id=n")

	require.NotNil(t, hooks.OnSeed)
	hooks.OnSeed(context.Background(), &domain.SeedEvent{Restored: 2})
	assert.NotContains(t, buf.String(), "seed", "seeds without drops are not logged")
}
