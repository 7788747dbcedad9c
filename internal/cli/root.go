// Package cli implements the lockdin-tz command, an offline converter
// between US Eastern wall-clock time and UTC.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Set from main via ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

type options struct {
	json bool
}

// NewRootCommand creates the root command with every subcommand registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "lockdin-tz",
		Short: "Convert between US Eastern time and UTC",
		Long: `lockdin-tz converts deadlines between US Eastern wall-clock time and UTC
using the rule LOCKDIN stores tasks with: daylight saving time runs from the
second Sunday of March 02:00 to the first Sunday of November 02:00.

Local times are written YYYY-MM-DD HH:MM (or YYYY-MM-DDTHH:MM).
UTC instants are written 2024-07-15T16:00:00.000Z.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
	}

	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output in JSON format")

	rootCmd.AddCommand(newToUTCCommand(opts))
	rootCmd.AddCommand(newToEasternCommand(opts))
	rootCmd.AddCommand(newDSTCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		jsonOut, _ := rootCmd.PersistentFlags().GetBool("json")
		printError(rootCmd.ErrOrStderr(), jsonOut, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, jsonOut bool, err error) {
	if jsonOut {
		_ = writeJSON(w, map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// joinArgs lets "2024-07-15 12:00" be passed with or without quotes.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
