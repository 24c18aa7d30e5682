package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"faultline.dev/pkg/faultline/internal/domain"
	m "faultline.dev/pkg/faultline/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Merge sharded runs into a single report",
		Long:  "Merge the runs in shard_* subdirectories of the output directory into one set of reports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))
			return workflow.Merge(cmd.Context(), domain.MergeArgs{OutputDir: reportsPath})
		},
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
