package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
	"github.com/aretw0/sprig/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions stored in .sprig/sessions (or Redis with --redis).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := cli.OpenStore(runOptions(cmd, nil))
		if err != nil {
			return err
		}
		defer backend.Close()

		sessions, err := backend.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No saved sessions found.")
			return nil
		}

		fmt.Println("Saved Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
		return nil
	},
}

// inspection is what `session inspect` prints: the stored state plus, when the
// tree document loads, the rendered view of it.
type inspection struct {
	*domain.State
	Nodes   []domain.NodeView `json:"nodes,omitempty"`
	Missing []string          `json:"missing,omitempty"`
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		opts := runOptions(cmd, nil)

		backend, err := cli.OpenStore(opts)
		if err != nil {
			return err
		}
		defer backend.Close()

		state, err := backend.Store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		out := inspection{State: state}
		if engine, err := cli.NewEngine(opts, cli.CreateLogger(opts.Debug)); err == nil {
			if nodes, err := engine.Render(cmd.Context(), state); err == nil {
				out.Nodes = domain.Views(nodes)
			}
			out.Missing, _ = engine.Missing(cmd.Context(), state)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := cli.OpenStore(runOptions(cmd, nil))
		if err != nil {
			return err
		}
		defer backend.Close()

		failed := 0
		for _, sessionID := range args {
			if err := backend.Store.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				failed++
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d session(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
