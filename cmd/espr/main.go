package main

import (
	"fmt"
	"os"

	"github.com/diillson/es-profile-report/internal/adapter/driven/aws"
	"github.com/diillson/es-profile-report/internal/adapter/driven/config"
	"github.com/diillson/es-profile-report/internal/adapter/driven/export"
	"github.com/diillson/es-profile-report/internal/adapter/driven/input"
	"github.com/diillson/es-profile-report/internal/adapter/driving/cli"
	"github.com/diillson/es-profile-report/internal/application/usecase"
	"github.com/diillson/es-profile-report/internal/logging"
	"github.com/diillson/es-profile-report/internal/shared/types"
	"github.com/diillson/es-profile-report/pkg/console"
	"github.com/diillson/es-profile-report/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version, config.NewConfigRepository())

	// Os repositórios dependem das flags (perfil AWS, nível de log),
	// então são montados depois do parse.
	app.SetRunnerFactory(func(args *types.CLIArgs) cli.ReportRunner {
		logCfg := logging.DefaultConfig()
		logCfg.Level = args.LogLevel

		storageRepo := aws.NewAWSRepository(args.AWSProfile, args.Region, logging.NewWithComponent(logCfg, "aws"))
		profileRepo := input.NewProfileRepository(os.Stdin, storageRepo, logging.NewWithComponent(logCfg, "input"))

		return usecase.NewReportUseCase(
			profileRepo,
			export.NewExportRepository(),
			storageRepo,
			console.NewConsole(),
			logging.NewWithComponent(logCfg, "report"),
		)
	})

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
