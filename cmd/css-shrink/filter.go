package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/spf13/cobra"
)

func newFilterCmd() *cobra.Command {
	var (
		flags   optionFlags
		classes string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "filter --classes <file> <stylesheet>",
		Short: "Filter one stylesheet against a class list",
		Long: `Filter one stylesheet against a newline separated class list, such as the
output of "css-shrink extract", and print the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			opts, err := shrink.NewOptions(cfg.Settings())
			if err != nil {
				return err
			}

			candidates, err := readClassList(classes)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(args[0]) //nolint:gosec // G304: user supplied stylesheet
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			result, err := shrink.NewFilter(opts).Shrink(args[0], string(source), candidates)
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, []byte(result.Output), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&classes, "classes", "", "File listing one candidate class per line")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of stdout")
	_ = cmd.MarkFlagRequired("classes")

	return cmd
}

// readClassList reads one class per line, ignoring blank lines
func readClassList(path string) (collections.Set[string], error) {
	f, err := os.Open(path) //nolint:gosec // G304: user supplied class list
	if err != nil {
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}
	defer f.Close()

	set := collections.NewSet[string]()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			set.Add(name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}
	return set, nil
}
