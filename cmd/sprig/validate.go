package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
	"github.com/aretw0/sprig/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document]",
	Short: "Check the tree document for consistency",
	Long: `Parses the tree document and reports every structural problem at once:
missing or duplicate ids, duplicate options, and (under the positional policy)
children without a matching option.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)

		engine, err := cli.NewEngine(opts, cli.CreateLogger(opts.Debug))
		if err != nil {
			problems := schema.ValidationErrors(err)
			if len(problems) == 0 {
				return err
			}
			for _, p := range problems {
				fmt.Printf("  - %v\n", p)
			}
			return errors.New("validation failed")
		}

		tree := engine.Inspect()
		fmt.Printf("Tree is valid! %d node(s), %d root(s), policy %s.\n", tree.Len(), len(tree.Roots()), engine.Policy())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
