package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"declgen/internal/logging"
	"declgen/internal/prof"
	"declgen/internal/version"
)

// errReported marks failures whose details were already printed.
var errReported = errors.New("failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		closeLog func()
		session  *prof.Session
	)
	root := &cobra.Command{
		Use:   "declgen",
		Short: "Generate RBI and RBS declaration files",
		Long: `declgen merges declaration documents (YAML or TOML) from any number of
contributors into one tree and renders it as Sorbet RBI or Ruby RBS.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbosity, err := cmd.Flags().GetCount("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			colorFlag, err := cmd.Flags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			if err := checkColorFlag(colorFlag); err != nil {
				return err
			}
			color.NoColor = !useColor(colorFlag, os.Stdout)
			closeLog = logging.Setup(verbosity, cmd.ErrOrStderr(), !useColor(colorFlag, os.Stderr))

			cpuPath, _ := cmd.Flags().GetString("cpuprofile")
			memPath, _ := cmd.Flags().GetString("memprofile")
			session, err = prof.Start(cpuPath, memPath)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if closeLog != nil {
				defer closeLog()
			}
			return session.Stop()
		},
	}

	// Глобальные флаги
	root.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("config", "", "config file (default: nearest declgen.toml or declgen.yaml)")
	root.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newOutlineCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func checkColorFlag(value string) error {
	switch value {
	case "auto", "on", "off":
		return nil
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func useColor(flag string, f *os.File) bool {
	return flag == "on" || (flag == "auto" && isTerminal(f))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorDisabled() bool {
	return color.NoColor
}
