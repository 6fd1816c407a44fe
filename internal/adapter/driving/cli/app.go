package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/es-profile-report/internal/application/usecase"
	"github.com/diillson/es-profile-report/internal/domain/repository"
	"github.com/diillson/es-profile-report/internal/shared/types"
	"github.com/diillson/es-profile-report/pkg/version"
)

// ReportRunner runs the report for parsed arguments.
type ReportRunner interface {
	RunReport(ctx context.Context, args *types.CLIArgs) error
}

// RunnerFactory builds the runner once the arguments are known, so adapters
// can be configured from flags (AWS profile, log level).
type RunnerFactory func(args *types.CLIArgs) ReportRunner

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	factory    RunnerFactory
	version    string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository) *CLIApp {
	app := &CLIApp{
		version:    versionStr,
		configRepo: configRepo,
	}

	rootCmd := &cobra.Command{
		Use:           "espr",
		Short:         "Elasticsearch profile report",
		Long:          welcomeBanner(),
		Version:       version.FormatVersion(),
		Args:          cobra.NoArgs,
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "ES Profile Report version: %s\n" .Version}}`)

	flags := rootCmd.Flags()
	flags.CountP("verbose", "v", "Print the timing breakdown of every node (repeatable)")
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("input", "i", "", "Read the profile from a file or s3://bucket/key instead of stdin")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("upload", "", "Upload exported reports to s3://bucket/prefix")
	flags.String("aws-profile", "", "AWS shared config profile used for S3")
	flags.String("region", "", "AWS region used for S3")
	flags.Bool("summary", false, "Display a per-shard summary table")
	flags.Int("top", 0, "Display the N slowest nodes as bars")
	flags.Bool("color", false, "Highlight nodes that take a large share of their parent's time")
	flags.Int("hot-threshold", usecase.DefaultHotThreshold, "Percentage of the parent time from which a node is highlighted")
	flags.String("log-level", "warn", "Diagnostic log level: trace, debug, info, warn, error")
	flags.Bool("check-update", false, "Check whether a newer release is available")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetRunnerFactory sets how the report runner is built for the CLI app.
func (app *CLIApp) SetRunnerFactory(factory RunnerFactory) {
	app.factory = factory
}

// SetArgs overrides os.Args, mostly for tests.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	input, _ := flags.GetString("input")
	verbose, _ := flags.GetCount("verbose")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	upload, _ := flags.GetString("upload")
	awsProfile, _ := flags.GetString("aws-profile")
	region, _ := flags.GetString("region")
	summary, _ := flags.GetBool("summary")
	top, _ := flags.GetInt("top")
	colorize, _ := flags.GetBool("color")
	hotThreshold, _ := flags.GetInt("hot-threshold")
	logLevel, _ := flags.GetString("log-level")
	checkUpdate, _ := flags.GetBool("check-update")

	args := &types.CLIArgs{
		ConfigFile:   configFile,
		Input:        input,
		Verbose:      verbose,
		ReportName:   reportName,
		ReportType:   reportType,
		Dir:          dir,
		Upload:       upload,
		AWSProfile:   awsProfile,
		Region:       region,
		Summary:      summary,
		Top:          top,
		Color:        colorize,
		HotThreshold: hotThreshold,
		LogLevel:     logLevel,
		CheckUpdate:  checkUpdate,
	}

	if configFile != "" {
		config, err := app.configRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		mergeConfig(args, config, cmd.Flags().Changed)
	}

	if args.HotThreshold < 0 {
		return nil, fmt.Errorf("invalid --hot-threshold %d: must be zero or positive", args.HotThreshold)
	}

	// Só resolve o diretório quando há exportação
	if args.ReportName != "" {
		if args.Dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			args.Dir = cwd
		} else {
			absDir, err := filepath.Abs(args.Dir)
			if err != nil {
				return nil, err
			}
			args.Dir = absDir
		}
	}

	return args, nil
}

// mergeConfig copies config file values into args for every flag that was
// not set explicitly on the command line.
func mergeConfig(args *types.CLIArgs, config *types.Config, changed func(string) bool) {
	if !changed("input") && config.Input != "" {
		args.Input = config.Input
	}
	if !changed("verbose") && config.Verbose {
		args.Verbose = 1
	}
	if !changed("report-name") && config.ReportName != "" {
		args.ReportName = config.ReportName
	}
	if !changed("report-type") && len(config.ReportType) > 0 {
		args.ReportType = config.ReportType
	}
	if !changed("dir") && config.Dir != "" {
		args.Dir = config.Dir
	}
	if !changed("upload") && config.Upload != "" {
		args.Upload = config.Upload
	}
	if !changed("aws-profile") && config.AWSProfile != "" {
		args.AWSProfile = config.AWSProfile
	}
	if !changed("region") && config.Region != "" {
		args.Region = config.Region
	}
	if !changed("summary") && config.Summary {
		args.Summary = true
	}
	if !changed("top") && config.Top > 0 {
		args.Top = config.Top
	}
	if !changed("color") && config.Color {
		args.Color = true
	}
	if !changed("hot-threshold") && config.HotThreshold > 0 {
		args.HotThreshold = config.HotThreshold
	}
	if !changed("log-level") && config.LogLevel != "" {
		args.LogLevel = config.LogLevel
	}
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	runner := app.factory(cliArgs)
	if err := runner.RunReport(cmd.Context(), cliArgs); err != nil {
		return err
	}

	if cliArgs.CheckUpdate {
		version.CheckLatestVersion(app.version)
	}
	return nil
}
