package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"faultline.dev/pkg/faultline/internal/domain"
	m "faultline.dev/pkg/faultline/internal/model"
)

const (
	replayOutcomeFlagName = "outcome"
	replayLimitFlagName   = "limit"
)

var replaySpecFlag string
var replayOutcomeFlag string
var replayLimitFlag int

// replayCmd represents the replay command.
var replayCmd = newReplayCmd()

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Reproduce the failing trials of a spec from results.csv",
		Long: `Read results.csv from the output directory, pick the first trials of --spec
with the given outcome and reproduce each of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if replaySpecFlag == "" {
				return domain.ErrMissingReproduceArgs
			}

			outcome := m.Outcome(replayOutcomeFlag)
			if !slices.Contains(m.Outcomes, outcome) {
				return fmt.Errorf("invalid --%s %q: expected one of %v", replayOutcomeFlagName, replayOutcomeFlag, m.Outcomes)
			}

			return workflow.Replay(cmd.Context(), domain.ReplayArgs{
				HarnessArgs: harnessArgs(),
				SpecName:    replaySpecFlag,
				Outcome:     outcome,
				Limit:       replayLimitFlag,
			})
		},
	}

	cmd.Flags().StringVar(&replaySpecFlag, reproduceSpecFlagName, "", "name of the injection spec")
	cmd.Flags().StringVar(&replayOutcomeFlag, replayOutcomeFlagName, string(m.OutcomeIncorrect), "outcome to replay (pass, incorrect or exception)")
	cmd.Flags().IntVarP(&replayLimitFlag, replayLimitFlagName, "n", domain.DefaultReplayLimit, "maximum number of trials to replay")

	return cmd
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
