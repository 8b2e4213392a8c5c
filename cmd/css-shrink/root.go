package main

import (
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/version"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	var verbose bool
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "css-shrink",
		Short: "Remove CSS rules no compiled script refers to",
		Long: `css-shrink scans the string literals of compiled JavaScript bundles for
class names and drops every CSS rule whose class selectors match none of them.

It is meant for applications whose markup is generated at runtime, where
template scanning cannot see the classes in use.`,
		Version:       version.FullString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case verbose:
				log.SetLevel(log.LevelDebug)
			case logLevel != "":
				log.SetLevel(log.ParseLevel(logLevel))
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newFilterCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
