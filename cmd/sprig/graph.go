package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
	"github.com/aretw0/sprig/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [document]",
	Short: "Export the question tree as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the question tree. Edges are labeled
with the option that reveals the child. With --session, the session's answers
are overlaid: answered nodes and the chosen edges are highlighted, and visible
unanswered questions are marked open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		sessionID, _ := cmd.Flags().GetString("session")

		engine, err := cli.NewEngine(opts, cli.CreateLogger(opts.Debug))
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			backend, err := cli.OpenStore(opts)
			if err != nil {
				return err
			}
			defer backend.Close()

			state, err := backend.Store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			// Stale answers the tree no longer reaches are not highlighted.
			state, err = engine.Reconcile(cmd.Context(), state)
			if err != nil {
				return err
			}
			nodes, err := engine.Render(cmd.Context(), state)
			if err != nil {
				return err
			}

			overlay = &graph.GraphOverlay{Answers: state.Answers}
			for _, n := range nodes {
				overlay.Visible = append(overlay.Visible, n.ID)
			}
		}

		fmt.Print(graph.GenerateMermaid(engine.Inspect(), engine.Policy(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Overlay the answers of this session")
}
