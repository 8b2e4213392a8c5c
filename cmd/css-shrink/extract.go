package main

import (
	"fmt"
	"os"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "extract <script>...",
		Short: "Print the candidate class names found in scripts",
		Long: `Print, one per line and sorted, every candidate class name found in the
string literals of the given scripts. Scripts with an unterminated string
literal are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			opts, err := shrink.NewOptions(cfg.Settings())
			if err != nil {
				return err
			}

			extractor := shrink.NewExtractor(opts)
			candidates := collections.NewSet[string]()
			for _, path := range args {
				data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied script
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				if err := extractor.AddSource(candidates, path, string(data)); err != nil {
					log.Warn("Skipping script: %v", err)
				}
			}

			out := cmd.OutOrStdout()
			for _, name := range collections.Sorted(candidates) {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
