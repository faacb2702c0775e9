package runner

import (
	"context"

	"github.com/aretw0/sprig/pkg/domain"
)

// Form is one rendering of a session: what is visible and what to ask next.
type Form struct {
	SessionID string
	Nodes     []domain.VisibleNode
	Missing   []string

	// Prompt is the node the user is asked about, or nil when nothing is left.
	Prompt *domain.VisibleNode
}

// Complete reports whether the form can be submitted.
func (f Form) Complete() bool {
	return len(f.Missing) == 0
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the form to the user.
	Output(ctx context.Context, form Form) error

	// Input reads a command from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (errors, confirmations, status).
	// This is distinct from form rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// CommandReader is implemented by handlers whose input arrives already
// structured. Run uses it instead of Input and ParseCommand.
type CommandReader interface {
	ReadCommand(ctx context.Context) (Command, error)
}

// buildForm picks the first visible, unanswered, choosable node not in skipped.
func buildForm(sessionID string, rich *RichResponse, skipped map[string]bool) Form {
	form := Form{
		SessionID: sessionID,
		Nodes:     rich.Nodes,
		Missing:   rich.Missing,
	}
	for i := range rich.Nodes {
		n := &rich.Nodes[i]
		if n.Answered || n.Node.IsLeaf() || skipped[n.ID] {
			continue
		}
		form.Prompt = n
		break
	}
	return form
}
