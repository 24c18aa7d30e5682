package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"faultline.dev/pkg/faultline/internal/domain"
)

var runTrialsFlag int
var runSeedFlag uint64
var runParallelFlag int
var runShardFlag string

const runLongDescription = `Run every spec of the catalog TRIALS times against the target.

Trial seeds are drawn from the master seed (--seed, or a random one that is
printed and recorded in the run manifest). Results are written to the output
directory: results.csv, summary.html, trials.msgpack, run.msgpack,
metrics.prom and examples/ with every failing mutated input.

With --shard I/T only the trials whose plan index is I modulo T run, and the
reports go to <output>/shard_I. Use "faultline merge" to combine shards.`

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run fault injection trials",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shardIndex, totalShards, err := parseShardFlag(runShardFlag)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				HarnessArgs:   harnessArgs(),
				TrialsPerSpec: viper.GetInt(runTrialsConfigKey),
				MasterSeed:    viper.GetUint64(runSeedConfigKey),
				RandomSeed:    !viper.IsSet(runSeedConfigKey),
				Parallel:      viper.GetInt(runParallelConfigKey),
				ShardIndex:    shardIndex,
				ShardCount:    totalShards,
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runTrialsFlag, runTrialsFlagName, "n", viper.GetInt(runTrialsConfigKey), "trials per spec")
	bindFlagToConfig(cmd.Flags().Lookup(runTrialsFlagName), runTrialsConfigKey)

	cmd.Flags().Uint64Var(&runSeedFlag, runSeedFlagName, 0, "master seed (default: random)")
	bindFlagToConfig(cmd.Flags().Lookup(runSeedFlagName), runSeedConfigKey)

	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel trial workers")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVarP(&runShardFlag, runShardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
}

// parseShardFlag parses INDEX/TOTAL. An empty value means a single shard.
func parseShardFlag(shard string) (int, int, error) {
	if shard == "" {
		return 0, 1, nil
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1, fmt.Errorf("%w: %q, expected INDEX/TOTAL with 0 <= INDEX < TOTAL", domain.ErrInvalidShard, shard)
	}

	return index, total, nil
}
