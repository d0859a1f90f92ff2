package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatText = "text"
)

func newExtractCmd() *cobra.Command {
	var (
		mode   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract emails from one website and print them",
		Long: `Runs a single extraction without the captcha step, for operators.
Fast mode scrapes the given page; deep mode crawls up to 10 pages, 2 links deep.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatText {
				return fmt.Errorf("--format must be %q or %q", formatJSON, formatText)
			}
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			svc, store, err := buildService(cmd.Context(), a)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := svc.Extract(cmd.Context(), args[0], mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatText {
				for _, email := range res.Emails {
					if _, err := fmt.Fprintln(out, email); err != nil {
						return fmt.Errorf("write output: %w", err)
					}
				}
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "fast", `crawl mode: "fast" or "deep"`)
	cmd.Flags().StringVar(&format, "format", formatJSON, `output format: "json" or "text"`)
	return cmd
}
