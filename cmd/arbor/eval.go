package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/evaluation"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the agent against labeled test cases",
	Long: `Runs the agent over a batch of test cases and reports task success,
tool usage efficiency, response quality and the composite reward.

Without --cases, a built-in sample set is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		casesPath, _ := cmd.Flags().GetString("cases")
		asJSON, _ := cmd.Flags().GetBool("json")

		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger := cli.NewLogger(settings)
		provider, err := cli.NewProvider(settings, logger)
		if err != nil {
			return err
		}
		agent, err := cli.NewAgent(settings, provider, cli.NewRegistry(), logger, domain.LifecycleHooks{}, "")
		if err != nil {
			return err
		}

		evaluator := evaluation.New(agent, evaluation.WithLogger(logger))

		var batch *evaluation.BatchResult
		if casesPath != "" {
			batch, err = evaluator.EvaluateFile(cmd.Context(), casesPath)
		} else {
			batch, err = evaluator.EvaluateBatch(cmd.Context(), evaluation.SampleCases())
		}
		if err != nil {
			return err
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(batch)
		}

		fmt.Printf("Evaluated %d cases\n", batch.NumTestCases)
		fmt.Printf("  task success:     %.3f\n", batch.Aggregate.TaskSuccess)
		fmt.Printf("  tool efficiency:  %.3f\n", batch.Aggregate.ToolUsageEfficiency)
		fmt.Printf("  response quality: %.3f\n", batch.Aggregate.ResponseQuality)
		fmt.Printf("  reward:           %.3f\n", batch.Aggregate.Reward)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("cases", "", "Path to a JSON file with test cases")
	evalCmd.Flags().Bool("json", false, "Emit the full result as JSON")
}
