// run.go implements "mdpipe run": load a pipeline definition, execute it
// once, and report a summary of the run.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/config"
	"github.com/y-kohei/mdpipe/internal/model"
	"github.com/y-kohei/mdpipe/internal/pipeline"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	// outputDir, when set, overrides the output_dir of every serialize
	// stage in the definition.
	outputDir string
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Execute a pipeline once",
		Long: `Execute the pipeline described by a definition file and exit.

Examples:
  mdpipe run pipeline.yml
  mdpipe run pipeline.jsonc --output out/
  mdpipe run pipeline.yml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "",
		"Override the output directory of serialize stages")

	return cmd
}

// runRun loads, builds and executes the pipeline, then prints a summary.
func runRun(ctx context.Context, configPath string, flags *runFlags) error {
	def, err := config.Load(configPath)
	if err != nil {
		return err // Load already returns a CLIError with ExitBadConfig
	}

	if flags.outputDir != "" {
		for i := range def.Stages {
			if def.Stages[i].Type == "serialize" {
				def.Stages[i].OutputDir = flags.outputDir
			}
		}
	}

	p, err := def.Build()
	if err != nil {
		return model.WrapCLIError(model.ExitBadConfig, "building pipeline", err)
	}

	zap.S().Infow("executing pipeline", "pipeline", def.ID, "config", configPath)
	start := time.Now()
	items, err := p.Execute(ctx, nil)
	if err != nil {
		if pipeline.IsTermination(err) {
			return model.WrapCLIError(model.ExitTerminated, "pipeline terminated", err)
		}
		return model.WrapCLIError(model.ExitPipelineFailed, "pipeline failed", err)
	}

	duration := time.Since(start)
	printRunSummary(model.RunSummary{
		Pipeline:        def.ID,
		Stages:          len(def.Stages),
		Items:           len(items),
		Duration:        duration,
		DurationSeconds: duration.Seconds(),
	})
	return nil
}

// printRunSummary renders the summary in text or JSON form.
func printRunSummary(summary model.RunSummary) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Pipeline %s completed: %d stages, %d items, %s\n",
		summary.Pipeline, summary.Stages, summary.Items, summary.Duration.Round(time.Millisecond))
}
