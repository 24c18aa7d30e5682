// Package cmd provides the root command and CLI setup for faultline.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"faultline.dev/pkg/faultline/internal/adapter"
	"faultline.dev/pkg/faultline/internal/controller"
	"faultline.dev/pkg/faultline/internal/domain"
	m "faultline.dev/pkg/faultline/internal/model"
	"faultline.dev/pkg/faultline/internal/target"
)

var artifactStore adapter.ArtifactStore
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

var verboseFlag bool
var logFileFlag string

var specsFileFlag string
var baselineInputFlag string
var baselineFileFlag string
var baselineRunsFlag int
var trialTimeoutFlag time.Duration

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	artifactStore = adapter.NewLocalArtifactStore()
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(
		target.NewPacketProcessor(),
		m.NewInput([]byte(target.DefaultBaseline)),
		artifactStore,
		reportStore,
		ui,
	)
}

const rootLongDescription = `Faultline is a fault injection harness. It mutates a known-good input
with seeded fault models (bit flips, stuck bytes, corrupted ranges, null
inputs, delays and forced exceptions), runs the target against every
mutation and classifies each trial as pass, incorrect or exception.

Every trial seed is derived from one master seed, so any failure can be
reproduced with "faultline reproduce --spec NAME --trial-seed N".`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "faultline",
		Short:        "Seeded fault injection harness",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(logFileFlag, viper.GetBool(logVerboseKey))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for trial reports and failing inputs",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from log.filename)")

	cmd.PersistentFlags().StringVar(&specsFileFlag, specsFlagName, viper.GetString(specsFileConfigKey), "YAML or TOML spec catalog (default: built-in catalog)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(specsFlagName), specsFileConfigKey)

	cmd.PersistentFlags().StringVar(&baselineInputFlag, baselineInputFlagName, viper.GetString(baselineInputConfigKey), "baseline input text")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(baselineInputFlagName), baselineInputConfigKey)

	cmd.PersistentFlags().StringVar(&baselineFileFlag, baselineFileFlagName, viper.GetString(baselineFileConfigKey), "file holding the baseline input bytes (overrides --input)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(baselineFileFlagName), baselineFileConfigKey)

	cmd.PersistentFlags().IntVar(&baselineRunsFlag, baselineRunsFlagName, viper.GetInt(baselineRunsConfigKey), "number of baseline invocations before the first trial")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(baselineRunsFlagName), baselineRunsConfigKey)

	cmd.PersistentFlags().DurationVar(&trialTimeoutFlag, trialTimeoutFlagName, viper.GetDuration(trialTimeoutConfigKey), "per-trial timeout (0 disables it)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(trialTimeoutFlagName), trialTimeoutConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// harnessArgs collects the options shared by run, reproduce and replay.
func harnessArgs() domain.HarnessArgs {
	return domain.HarnessArgs{
		OutputDir:    m.Path(viper.GetString(outputFlagName)),
		SpecsFile:    m.Path(viper.GetString(specsFileConfigKey)),
		BaselineText: viper.GetString(baselineInputConfigKey),
		BaselineFile: m.Path(viper.GetString(baselineFileConfigKey)),
		BaselineRuns: viper.GetInt(baselineRunsConfigKey),
		TrialTimeout: viper.GetDuration(trialTimeoutConfigKey),
	}
}
