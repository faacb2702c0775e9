package runner

import (
	"strconv"
	"strings"
)

// CommandKind classifies a line typed at the prompt.
type CommandKind int

const (
	// CmdPick selects an option of the prompted node by number or by name.
	CmdPick CommandKind = iota
	// CmdAnswer answers an explicit node: "node-id=option".
	CmdAnswer
	CmdSkip
	CmdDone
	CmdQuit
	CmdEmpty
)

// Command is a parsed prompt line.
type Command struct {
	Kind   CommandKind
	NodeID string
	Option string

	// Index is the 1-based option number for CmdPick, or 0 when picked by name.
	Index int
}

// ParseCommand interprets a sanitized input line.
func ParseCommand(input string) Command {
	text := strings.TrimSpace(input)
	switch strings.ToLower(text) {
	case "":
		return Command{Kind: CmdEmpty}
	case "quit", "exit":
		return Command{Kind: CmdQuit}
	case "skip":
		return Command{Kind: CmdSkip}
	case "done":
		return Command{Kind: CmdDone}
	}

	if node, option, ok := strings.Cut(text, "="); ok {
		node, option = strings.TrimSpace(node), strings.TrimSpace(option)
		if node != "" && option != "" {
			return Command{Kind: CmdAnswer, NodeID: node, Option: option}
		}
	}

	if n, err := strconv.Atoi(text); err == nil && n > 0 {
		return Command{Kind: CmdPick, Index: n, Option: text}
	}
	return Command{Kind: CmdPick, Option: text}
}
