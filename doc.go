/*
Package sprig is an in-memory selection-state engine for branching questionnaires.

A questionnaire is a Question Tree: each node offers a fixed set of options and
owns child nodes that become visible once an option is chosen. Sprig records
which option was chosen at each node, clears every answer beneath a node when
that node is re-answered, and computes which nodes should be shown.

# Concept

The tree is read-only and shared. Answers live in a domain.State owned by the
host (CLI, HTTP server, MCP agent), which persists it however it likes. Every
call re-seeds a short-lived runtime from the state, so the Engine itself is
safe for concurrent use across sessions.

Children correspond to options positionally by default: the k-th child is shown
when the k-th option is chosen. domain.PolicyFlagGated switches to revealing
every child marked parentLink once the node has any answer.

# Usage

	eng, err := sprig.New("./form.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, _ := eng.Start(ctx, "session-123")

	state, err = eng.Answer(ctx, state, "pet", "yes")
	if err != nil {
		// domain.ErrUnknownNode, domain.ErrInvalidOption or domain.ErrHiddenNode
		log.Println(err)
	}

	nodes, _ := eng.Render(ctx, state)
	for _, n := range nodes {
		fmt.Printf("%s%s = %q\n", strings.Repeat("  ", n.Depth), n.ID, n.Answer)
	}

Tree documents are JSON or YAML with a top-level "data" array; see package schema.
*/
package sprig
