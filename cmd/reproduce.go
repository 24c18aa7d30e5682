package cmd

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"faultline.dev/pkg/faultline/internal/domain"
)

const (
	reproduceSpecFlagName = "spec"
	reproduceSeedFlagName = "trial-seed"
)

var reproduceSpecFlag string
var reproduceSeedFlag uint64

// reproduceCmd represents the reproduce command.
var reproduceCmd = newReproduceCmd()

func newReproduceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reproduce",
		Short: "Replay one trial from its spec name and seed",
		Long: `Re-apply the fault model of --spec with --trial-seed to the baseline input,
invoke the target once and print the outcome with a hex diff of the mutated
input. The mutated input is saved under <output>/reproductions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reproduceSpecFlag == "" || !cmd.Flags().Changed(reproduceSeedFlagName) {
				return domain.ErrMissingReproduceArgs
			}

			seed, err := safecast.Conv[uint32](reproduceSeedFlag)
			if err != nil {
				return fmt.Errorf("invalid --%s %d: %w", reproduceSeedFlagName, reproduceSeedFlag, err)
			}

			return workflow.Reproduce(cmd.Context(), domain.ReproduceArgs{
				HarnessArgs: harnessArgs(),
				SpecName:    reproduceSpecFlag,
				Seed:        seed,
			})
		},
	}

	cmd.Flags().StringVar(&reproduceSpecFlag, reproduceSpecFlagName, "", "name of the injection spec")
	cmd.Flags().Uint64Var(&reproduceSeedFlag, reproduceSeedFlagName, 0, "trial seed from results.csv")

	return cmd
}

func init() {
	rootCmd.AddCommand(reproduceCmd)
}
