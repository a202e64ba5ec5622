package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/evaluation"
	"github.com/aretw0/arbor/pkg/training"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run training episodes and checkpoint the reward history",
	Long: `Runs repeated evaluation episodes over a case batch, recording the
per-episode rewards, and saves a checkpoint under the given run ID.

With --resume, the episode counter and history are restored from the
existing checkpoint before training continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		casesPath, _ := cmd.Flags().GetString("cases")
		episodes, _ := cmd.Flags().GetInt("episodes")
		runID, _ := cmd.Flags().GetString("run-id")
		resume, _ := cmd.Flags().GetBool("resume")

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

		cases := evaluation.SampleCases()
		if casesPath != "" {
			cases, err = evaluation.LoadCases(casesPath)
			if err != nil {
				return err
			}
		}

		trainer := training.New(agent,
			training.WithLogger(logger),
			training.WithCheckpointStore(cli.NewCheckpointStore(settings)),
		)

		if resume {
			if _, err := trainer.LoadCheckpoint(cmd.Context(), runID); err != nil {
				if !errors.Is(err, domain.ErrCheckpointNotFound) {
					return err
				}
				fmt.Printf("No checkpoint for run %q yet, starting fresh\n", runID)
			}
		}

		records, err := trainer.Train(cmd.Context(), cases, episodes)
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Printf("episode %3d  avg reward %.3f  (%d cases)\n",
				record.Episode, record.AvgReward, record.NumTestCases)
		}

		if err := trainer.SaveCheckpoint(cmd.Context(), runID); err != nil {
			return err
		}
		fmt.Printf("Checkpoint saved for run %q at episode %d\n", runID, trainer.Episode())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().String("cases", "", "Path to a JSON file with test cases")
	trainCmd.Flags().Int("episodes", 3, "Number of episodes to run")
	trainCmd.Flags().String("run-id", "default", "Run ID for checkpointing")
	trainCmd.Flags().Bool("resume", false, "Resume from the run's checkpoint")
}
