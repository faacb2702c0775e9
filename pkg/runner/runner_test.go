package runner_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sprig"
	"github.com/aretw0/sprig/pkg/adapters/memory"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/runner"
)

// scriptHandler feeds canned input and records everything shown.
type scriptHandler struct {
	inputs []string
	forms  []runner.Form
	system []string
}

func (h *scriptHandler) Output(ctx context.Context, form runner.Form) error {
	h.forms = append(h.forms, form)
	return nil
}

func (h *scriptHandler) Input(ctx context.Context) (string, error) {
	if len(h.inputs) == 0 {
		return "", io.EOF
	}
	next := h.inputs[0]
	h.inputs = h.inputs[1:]
	return next, nil
}

func (h *scriptHandler) SystemOutput(ctx context.Context, msg string) error {
	h.system = append(h.system, msg)
	return nil
}

func (h *scriptHandler) lastForm() runner.Form {
	return h.forms[len(h.forms)-1]
}

func petEngine(t *testing.T, extra ...*domain.Node) *sprig.Engine {
	t.Helper()
	roots := []*domain.Node{{
		ID:      "pet",
		Options: []string{"yes", "no"},
		Children: []*domain.Node{
			{ID: "kind", Options: []string{"cat", "dog"}},
			{ID: "want", Options: []string{"yes", "no"}},
		},
	}}
	roots = append(roots, extra...)
	engine, err := sprig.New("", sprig.WithLoader(memory.NewLoader(roots...)))
	require.NoError(t, err)
	return engine
}

func TestRunner_CompletesForm(t *testing.T) {
	engine := petEngine(t)
	h := &scriptHandler{inputs: []string{"1", "dog"}}
	store := memory.NewStore()

	r := runner.NewRunner(
		runner.WithInputHandler(h),
		runner.WithStore(store),
		runner.WithSessionID("s1"),
		runner.WithHeadless(true),
	)

	final, err := r.Run(context.Background(), engine, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Answers{"pet": "yes", "kind": "dog"}, final.Answers)
	assert.Equal(t, 2, final.Revision)

	require.Len(t, h.forms, 3)
	assert.Equal(t, "pet", h.forms[0].Prompt.ID)
	assert.Equal(t, "kind", h.forms[1].Prompt.ID)
	assert.Nil(t, h.lastForm().Prompt)
	assert.True(t, h.lastForm().Complete())

	saved, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, final.Answers, saved.Answers)
}

func TestRunner_RejectedAnswersKeepPrompting(t *testing.T) {
	engine := petEngine(t)
	h := &scriptHandler{inputs: []string{"7", "maybe", "kind=cat", "no", "quit"}}

	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithHeadless(true))
	final, err := r.Run(context.Background(), engine, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.Answers{"pet": "no"}, final.Answers)
	require.Len(t, h.system, 3)
	assert.Contains(t, h.system[0], "between 1 and 2")
	assert.Contains(t, h.system[1], "maybe")
	assert.Contains(t, h.system[2], domain.ErrHiddenNode.Error())
	assert.Equal(t, "want", h.lastForm().Prompt.ID)
}

func TestRunner_CascadeInterceptor(t *testing.T) {
	color := &domain.Node{ID: "color", Options: []string{"red", "blue"}}

	t.Run("Refused", func(t *testing.T) {
		engine := petEngine(t, color)
		h := &scriptHandler{inputs: []string{"yes", "dog", "pet=no", "quit"}}
		var seen []runner.Change
		refuse := func(ctx context.Context, c runner.Change) (bool, error) {
			seen = append(seen, c)
			return false, nil
		}

		r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInterceptor(refuse))
		final, err := r.Run(context.Background(), engine, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.Answers{"pet": "yes", "kind": "dog"}, final.Answers)
		assert.Equal(t, 2, final.Revision)
		require.Len(t, seen, 1)
		assert.Equal(t, runner.Change{NodeID: "pet", Option: "no", Previous: "yes", Cleared: []string{"kind"}}, seen[0])
		assert.Equal(t, "color", h.lastForm().Prompt.ID)
	})

	t.Run("Approved", func(t *testing.T) {
		engine := petEngine(t, color)
		h := &scriptHandler{inputs: []string{"yes", "dog", "pet=no", "quit"}}

		r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInterceptor(runner.AutoApproveMiddleware()))
		final, err := r.Run(context.Background(), engine, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.Answers{"pet": "no"}, final.Answers)
		assert.Equal(t, 3, final.Revision)
		assert.Equal(t, "want", h.lastForm().Prompt.ID)
	})

	t.Run("ConfirmPrompt", func(t *testing.T) {
		engine := petEngine(t, color)
		h := &scriptHandler{inputs: []string{"yes", "dog", "pet=no", "y", "quit"}}

		r := runner.NewRunner(runner.WithInputHandler(h))
		final, err := r.Run(context.Background(), engine, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.Answers{"pet": "no"}, final.Answers)
		require.Len(t, h.system, 1)
		assert.Contains(t, h.system[0], "clears 1 answer(s): kind")
	})
}

func TestRunner_StaleAnswersNeedNoConfirmation(t *testing.T) {
	engine := petEngine(t)
	stale := &domain.State{SessionID: "old", Answers: domain.Answers{"pet": "no", "kind": "cat"}, Revision: 2}
	h := &scriptHandler{inputs: []string{"yes"}}
	var seen []runner.Change
	record := func(ctx context.Context, c runner.Change) (bool, error) {
		seen = append(seen, c)
		return false, nil
	}

	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithInterceptor(record))
	final, err := r.Run(context.Background(), engine, stale)
	require.NoError(t, err)

	assert.Empty(t, seen, "dropping an unreachable answer is not a cascade")
	assert.Equal(t, domain.Answers{"pet": "no", "want": "yes"}, final.Answers)
	assert.Equal(t, 3, final.Revision)
}

func TestRunner_JSONAnswersAreTakenVerbatim(t *testing.T) {
	mode := &domain.Node{ID: "mode", Options: []string{"skip", "a=b"}}
	engine := petEngine(t, mode)
	input := strings.Join([]string{
		`{"node_id":"pet","option":"no"}`,
		`{"node_id":"mode","option":"skip"}`,
		`{"node_id":"want","option":"no"}`,
	}, "\n")

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(input), io.Discard)),
		runner.WithHeadless(true),
	)
	final, err := r.Run(context.Background(), engine, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Answers{"pet": "no", "mode": "skip", "want": "no"}, final.Answers)
}

func TestRunner_SkipAndDone(t *testing.T) {
	loader, err := memory.NewFromDocument([]byte(`
data:
  - id: contact
    options: [email, phone]
    required: true
  - id: newsletter
    options: [weekly, monthly]
`), "yaml")
	require.NoError(t, err)
	engine, err := sprig.New("", sprig.WithLoader(loader))
	require.NoError(t, err)

	h := &scriptHandler{inputs: []string{"done", "skip", "email", "skip"}}
	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithHeadless(true))

	final, err := r.Run(context.Background(), engine, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.Answers{"contact": "email"}, final.Answers)
	require.Len(t, h.system, 2)
	assert.Equal(t, "Still missing: contact", h.system[0])
	assert.Contains(t, h.system[1], "required")
	assert.Nil(t, h.lastForm().Prompt)
	assert.True(t, h.lastForm().Complete())
}

func TestRunner_ResumesGivenState(t *testing.T) {
	engine := petEngine(t)
	state := &domain.State{SessionID: "resume", Answers: domain.Answers{"pet": "yes"}, Revision: 1}
	h := &scriptHandler{inputs: []string{"cat"}}

	r := runner.NewRunner(runner.WithInputHandler(h), runner.WithHeadless(true))
	final, err := r.Run(context.Background(), engine, state)
	require.NoError(t, err)

	assert.Equal(t, "resume", final.SessionID)
	assert.Equal(t, domain.Answers{"pet": "yes", "kind": "cat"}, final.Answers)
	assert.Equal(t, domain.Answers{"pet": "yes"}, state.Answers, "input state must not change")
}

func TestRunner_Interrupted(t *testing.T) {
	engine := petEngine(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(pr, io.Discard)))
	final, err := r.Run(ctx, engine, nil)
	require.ErrorIs(t, err, runner.ErrInterrupted)
	require.NotNil(t, final)
	assert.Empty(t, final.Answers)
}
