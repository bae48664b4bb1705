package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"declgen/internal/diagfmt"
	"declgen/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags] <doc>...",
		Short: "Render declaration documents to RBI/RBS files",
		Long: `Build one declaration tree from all documents, applied in argument order,
and write <out>/<name>.<ext> for every requested dialect.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}
	addRenderFlags(cmd.Flags())
	addRunFlags(cmd.Flags())
	cmd.Flags().StringP("out", "o", "", "output directory")
	cmd.Flags().String("name", "", "output file name without extension")
	cmd.Flags().Bool("stdout", false, "print the rendered files instead of writing them")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}
	if toStdout {
		// прогресс и текст не должны смешиваться в одном потоке
		if err := cmd.Flags().Set("ui", string(uiModeOff)); err != nil {
			return err
		}
	}

	res, err := runPipeline(cmd, cfg, runSpec{title: "declgen generate", files: args})
	if err != nil {
		return err
	}
	if res.Diagnostics.Len() > 0 {
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), res.Diagnostics, diagfmt.PrettyOpts{Color: stderrColor(cmd), ShowNotes: true}); err != nil {
			return err
		}
	}

	if toStdout {
		if err := printOutputs(cmd.OutOrStdout(), res.Outputs, cfg.Output.Name); err != nil {
			return err
		}
		return printTimings(cmd, res)
	}

	paths, err := pipeline.Write(cfg.Output.Dir, cfg.Output.Name, res.Outputs, nil)
	if err != nil {
		return err
	}
	for i, path := range paths {
		note := ""
		if res.Outputs[i].Cached {
			note = " (cached)"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", path, note); err != nil {
			return err
		}
	}
	return printTimings(cmd, res)
}

// printOutputs writes one dialect as is; several get a header line each.
func printOutputs(w io.Writer, outputs []pipeline.Output, name string) error {
	for i, out := range outputs {
		if len(outputs) > 1 {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "# ==> %s.%s <==\n", name, out.Dialect.Ext()); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, out.Text); err != nil {
			return err
		}
	}
	return nil
}
