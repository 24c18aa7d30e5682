package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"faultline.dev/pkg/faultline/internal/domain"
	m "faultline.dev/pkg/faultline/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View a finished run",
		Long:  "Show the manifest and summary of a run recorded in the output directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))
			return workflow.View(cmd.Context(), domain.ViewArgs{OutputDir: reportsPath})
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
