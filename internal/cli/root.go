// Package cli implements the cobra commands for mdpipe.
//
// Each subcommand (run, inspect, serve) is defined in its own file. This
// file defines the root command, global flags, logger setup and exit-code
// handling.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/model"
)

// Global flag variables bound to persistent flags on the root command.
var (
	// jsonOutput switches command output to JSON for machine consumption.
	jsonOutput bool

	// verbose enables debug-level logging.
	verbose bool
)

// Version, Commit and Date are injected from the main package, which
// receives them from the build system via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command. The root
// itself only provides help text and global flags; functionality lives in
// the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mdpipe",
		Short: "Metadata pipeline runner and query service",
		Long: `mdpipe executes metadata-processing pipelines described by declarative
configuration files. A pipeline moves a collection of items through an
ordered list of stages; stages annotate item metadata, filter or reorder
the collection, and serialize results.

The serve command additionally exposes pipeline results as a query
service, refreshed on an interval.`,

		// Errors are formatted by Execute, so keep cobra quiet.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// setupLogger installs the global zap logger: development config with
// debug level under --verbose, production config otherwise.
func setupLogger(debug bool) error {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return nil
}

// Execute runs the root command and translates errors into process exit
// codes: CLIError carries its own code, anything else exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr in text or JSON form depending on
// the --json flag. Stdout stays reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]any{
			"error": map[string]any{"message": message},
		}
		if underlying != nil {
			errObj["error"].(map[string]any)["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set. Subcommands use it
// to choose their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
