package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var yesFlag bool
	var promptFlag bool

	cctx := newCommandContext(&configFlag, &yesFlag, &promptFlag)

	rootCmd := &cobra.Command{
		Use:           "upack",
		Short:         "Preservation packaging for batches of digital objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Answer every prompt with its default (unattended mode)")
	rootCmd.PersistentFlags().BoolVar(&promptFlag, "prompt", false, "Ask before proceeding to each next stage")

	rootCmd.AddCommand(newRunCommand(cctx))
	for _, cmd := range newStageCommands(cctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newConfigCommand(cctx))

	return rootCmd
}
