package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [document]",
	Short: "Fill in a form interactively",
	Long: `Starts the interactive form loop. Type an option number or name to answer
the highlighted question, node=option to change an earlier answer, skip to pass
an optional question, and quit to leave. With --session, every accepted answer
is saved and the session resumes where it stopped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")

		return cli.Execute(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to persist and resume")
	runCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, strict IO)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the tree document when it changes")
	runCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
}
