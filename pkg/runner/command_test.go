package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/sprig/pkg/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"", Command{Kind: CmdEmpty}},
		{"   ", Command{Kind: CmdEmpty}},
		{"quit", Command{Kind: CmdQuit}},
		{"EXIT", Command{Kind: CmdQuit}},
		{"skip", Command{Kind: CmdSkip}},
		{"Done", Command{Kind: CmdDone}},
		{"2", Command{Kind: CmdPick, Index: 2, Option: "2"}},
		{"0", Command{Kind: CmdPick, Option: "0"}},
		{" dog ", Command{Kind: CmdPick, Option: "dog"}},
		{"kind=cat", Command{Kind: CmdAnswer, NodeID: "kind", Option: "cat"}},
		{"kind = cat", Command{Kind: CmdAnswer, NodeID: "kind", Option: "cat"}},
		{"kind=", Command{Kind: CmdPick, Option: "kind="}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.input))
		})
	}
}

func TestResolveTarget_PrefersOptionNames(t *testing.T) {
	node := &domain.Node{ID: "floor", Options: []string{"3", "1", "Ground"}}
	form := Form{Prompt: &domain.VisibleNode{ID: "floor", Node: node}}

	id, opt, err := resolveTarget(form, ParseCommand("1"))
	assert.NoError(t, err)
	assert.Equal(t, "floor", id)
	assert.Equal(t, "1", opt)

	_, opt, err = resolveTarget(form, ParseCommand("3"))
	assert.NoError(t, err)
	assert.Equal(t, "3", opt)

	_, opt, err = resolveTarget(form, ParseCommand("ground"))
	assert.NoError(t, err)
	assert.Equal(t, "Ground", opt)

	_, _, err = resolveTarget(form, ParseCommand("roof"))
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, _, err = resolveTarget(Form{}, ParseCommand("1"))
	assert.Error(t, err)
}
