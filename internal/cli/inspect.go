// inspect.go implements "mdpipe inspect": parse and validate a pipeline
// definition and list the stages it resolves to, without executing it.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/y-kohei/mdpipe/internal/config"
	"github.com/y-kohei/mdpipe/internal/model"
)

// NewInspectCommand creates the "inspect" cobra command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <config>",
		Short: "Validate a pipeline definition and list its stages",
		Long: `Parse and validate a pipeline definition file, build every stage, and
print the resolved pipeline without executing it. Useful as a CI check
for pipeline configurations.

Examples:
  mdpipe inspect pipeline.yml
  mdpipe inspect pipeline.yml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

// runInspect loads the definition, exercises the stage builders, and
// prints the resolved stage list.
func runInspect(configPath string) error {
	def, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Building catches option errors that structural validation cannot,
	// such as a serialize stage without an output directory.
	if _, err := def.Build(); err != nil {
		return model.WrapCLIError(model.ExitBadConfig, "building pipeline", err)
	}

	summaries := make([]model.StageSummary, 0, len(def.Stages))
	for i := range def.Stages {
		sd := &def.Stages[i]
		summaries = append(summaries, model.StageSummary{
			Index: i,
			ID:    sd.StageID(i),
			Type:  sd.Type,
		})
	}

	printInspectResult(def.ID, summaries)
	return nil
}

// printInspectResult renders the stage list in text or JSON form.
func printInspectResult(pipelineID string, stages []model.StageSummary) {
	if IsJSONOutput() {
		result := map[string]any{
			"pipeline": pipelineID,
			"stages":   stages,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Pipeline: %s (%d stages)\n", pipelineID, len(stages))
	fmt.Printf("%-6s %-28s %s\n", "INDEX", "ID", "TYPE")
	for _, s := range stages {
		fmt.Printf("%-6d %-28s %s\n", s.Index, s.ID, s.Type)
	}
}
