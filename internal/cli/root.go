package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasklog/tasklog/pkg/color"
	"github.com/tasklog/tasklog/pkg/logging"
)

var (
	jsonOutput  bool
	noColor     bool
	debugOutput bool
	configFile  string
	projectFlag string
	rootCmd     = &cobra.Command{
		Use:   "task",
		Short: "Lightweight task management for coding agents",
		Long: `task records task lifecycle events in an append-only log and
rebuilds current state on every read. It is meant to be driven by coding
agents: output is terse and stable, errors go to stderr with exit status 1.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugOutput, "debug", false, "log debug information to stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/task/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "project scope (default: git origin owner/repo)")
}

// setup applies the global flags before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	color.Init(noColor)
	if noColor {
		color.Disable()
	}
	if debugOutput {
		logging.Global().SetLevel(logging.LevelDebug)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilentExit) {
			reportError(err)
		}
		os.Exit(1)
	}
}

// outputJSON prints v as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errSilentExit ends the command with status 1 after output was already
// written.
var errSilentExit = errors.New("exit status 1")

// hintError carries a follow-up line printed after the error.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

func withHint(err error, hint string) error {
	if hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

func reportError(err error) {
	fmtErr("%s", userMessage(err))
	var h *hintError
	if errors.As(err, &h) {
		fmt.Fprintln(os.Stderr, h.hint)
	}
}
