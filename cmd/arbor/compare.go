package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/evaluation"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Evaluate several model configurations against the same cases",
	Long: `Builds one agent per listed model, runs the same case batch through
each and ranks them per metric. All agents share the tool registry but never
conversation state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		casesPath, _ := cmd.Flags().GetString("cases")
		models, _ := cmd.Flags().GetStringSlice("models")
		asJSON, _ := cmd.Flags().GetBool("json")

		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			models = []string{settings.Agent.Model}
		}

		logger := cli.NewLogger(settings)
		provider, err := cli.NewProvider(settings, logger)
		if err != nil {
			return err
		}
		reg := cli.NewRegistry()

		multi := evaluation.NewMultiAgent(evaluation.WithMultiLogger(logger))
		for _, model := range models {
			perModel := settings
			perModel.Agent.Model = model
			agent, err := cli.NewAgent(perModel, provider, reg, logger, domain.LifecycleHooks{}, "")
			if err != nil {
				return err
			}
			multi.AddAgent(model, agent)
		}

		cases := evaluation.SampleCases()
		if casesPath != "" {
			cases, err = evaluation.LoadCases(casesPath)
			if err != nil {
				return err
			}
		}

		cmp, err := multi.Compare(cmd.Context(), cases)
		if err != nil {
			return err
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(cmp)
		}

		fmt.Printf("Best overall: %s\n\n", cmp.BestOverall)
		for _, name := range evaluation.MetricNames() {
			fmt.Printf("%-22s %s\n", name+":", strings.Join(cmp.Rankings[name], " > "))
		}
		fmt.Println()
		for _, id := range multi.AgentIDs() {
			m := cmp.AgentMetrics[id]
			fmt.Printf("%-20s reward %.3f  success %.3f  tools %.3f  quality %.3f\n",
				id, m.Reward, m.TaskSuccess, m.ToolUsageEfficiency, m.ResponseQuality)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().String("cases", "", "Path to a JSON file with test cases")
	compareCmd.Flags().StringSlice("models", nil, "Models to compare (default: configured model)")
	compareCmd.Flags().Bool("json", false, "Emit the full comparison as JSON")
}
