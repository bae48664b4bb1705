package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"declgen/internal/config"
	"declgen/internal/diagfmt"
	"declgen/internal/lint"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <doc>...",
		Short: "Build the declaration tree and report lint findings",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("empty-namespaces", false, "also report namespaces without declarations")
	cmd.Flags().Bool("warnings-as-errors", false, "exit with an error when there are warnings")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	return cmd
}

func lintOptions(cfg *config.Config) lint.Options {
	return lint.Options{EmptyNamespaces: cfg.Lint.EmptyNamespaces}
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := runPipeline(cmd, cfg, runSpec{title: "declgen check", files: args, needTree: true, noRender: true})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.JSON(out, res.Diagnostics, diagfmt.JSONOpts{IncludeNotes: true})
	} else {
		err = diagfmt.Pretty(out, res.Diagnostics, diagfmt.PrettyOpts{Color: !colorDisabled(), ShowNotes: true, Summary: true})
	}
	if err != nil {
		return err
	}
	if err := printTimings(cmd, res); err != nil {
		return err
	}

	if res.Diagnostics.Fails(warningsAsErrors) {
		return errReported
	}
	return nil
}
