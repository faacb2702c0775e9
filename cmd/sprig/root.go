package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "sprig",
	Short: "Sprig is a branching questionnaire engine",
	Long: `Sprig renders a tree of single-choice questions where each answer reveals
the sub-questions that belong to it. Changing an answer clears everything
beneath it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", ".", "Tree document, or a directory containing form.yaml/tree.json")
	rootCmd.PersistentFlags().String("policy", "positional", "Option to child correspondence: 'positional' or 'flag-gated'")
	rootCmd.PersistentFlags().String("entry", "", "Render only the subtree rooted at this node")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL for session storage (default: .sprig/sessions next to the document)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// runOptions reads the persistent flags. A positional argument overrides --file
// when the flag was not set explicitly.
func runOptions(cmd *cobra.Command, args []string) cli.RunOptions {
	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	if !flags.Changed("file") && len(args) > 0 {
		path = args[0]
	}
	policy, _ := flags.GetString("policy")
	entry, _ := flags.GetString("entry")
	redisURL, _ := flags.GetString("redis")
	debug, _ := flags.GetBool("debug")

	return cli.RunOptions{
		Path:     path,
		Policy:   policy,
		Entry:    entry,
		RedisURL: redisURL,
		Debug:    debug,
	}
}
