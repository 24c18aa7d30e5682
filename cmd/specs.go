package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "faultline.dev/pkg/faultline/internal/model"
)

// specsCmd represents the specs command.
var specsCmd = newSpecsCmd()

func newSpecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specs",
		Short: "List the injection specs of the catalog",
		Long:  "List the built-in injection specs, or the ones loaded from --specs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.ListSpecs(cmd.Context(), m.Path(viper.GetString(specsFileConfigKey)))
		},
	}
}

func init() {
	rootCmd.AddCommand(specsCmd)
}
