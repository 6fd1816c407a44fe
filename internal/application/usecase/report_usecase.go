package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/diillson/es-profile-report/internal/domain/entity"
	"github.com/diillson/es-profile-report/internal/domain/repository"
	"github.com/diillson/es-profile-report/internal/shared/types"
	"github.com/diillson/es-profile-report/pkg/console"
)

// DefaultHotThreshold is the percentage of the parent time from which a node
// is highlighted when colours are enabled.
const DefaultHotThreshold = 50

// ReportUseCase handles the profile report functionality.
type ReportUseCase struct {
	profileRepo repository.ProfileRepository
	exportRepo  repository.ExportRepository
	storageRepo repository.StorageRepository
	console     types.ConsoleInterface
	logger      zerolog.Logger
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	profileRepo repository.ProfileRepository,
	exportRepo repository.ExportRepository,
	storageRepo repository.StorageRepository,
	console types.ConsoleInterface,
	logger zerolog.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		profileRepo: profileRepo,
		exportRepo:  exportRepo,
		storageRepo: storageRepo,
		console:     console,
		logger:      logger,
	}
}

// RunReport executa a funcionalidade principal: lê o perfil, imprime o relatório
// e opcionalmente exporta os arquivos.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	shards, err := uc.profileRepo.LoadShards(ctx, args.Input)
	if err != nil {
		// Nada é renderizado sem a lista de shards
		return err
	}
	uc.logger.Debug().Int("shards", len(shards)).Msg("profile loaded")

	report := uc.BuildReport(shards, args.IsVerbose())
	uc.printReport(report, args)

	if args.Summary {
		uc.console.Print(uc.renderSummary(report.Summary))
	}

	if args.Top > 0 {
		uc.console.DisplayTimeBars(TopNodes(report, args.Top))
	}

	if args.ReportName == "" || len(args.ReportType) == 0 {
		return nil
	}

	exported := uc.exportReport(report, args)
	if args.Upload != "" && len(exported) > 0 {
		uc.uploadReports(ctx, exported, args.Upload)
	}

	return nil
}

// BuildReport walks every shard in input order, flattening each query tree of
// each search and then each aggregation tree.
func (uc *ReportUseCase) BuildReport(shards []entity.ShardRecord, verbose bool) entity.Report {
	report := entity.Report{
		Shards:  make([]entity.ShardReport, 0, len(shards)),
		Summary: make([]entity.ShardSummary, 0, len(shards)),
	}

	for _, shard := range shards {
		shardReport := entity.ShardReport{ID: shard.ID}
		summary := entity.ShardSummary{ID: shard.ID}

		tree := 0
		for _, search := range shard.Searches {
			for _, query := range search.Query {
				rows := buildRows(shard.ID, entity.SourceQuery, tree, query, verbose)
				shardReport.Rows = append(shardReport.Rows, rows...)
				summary.QueryTrees++
				summary.Nodes += len(rows)
				summary.TotalNanos += query.TimeInNanos
				tree++
			}
		}

		for _, agg := range shard.Aggregations {
			rows := buildRows(shard.ID, entity.SourceAggregation, tree, agg, verbose)
			shardReport.Rows = append(shardReport.Rows, rows...)
			summary.AggregationTrees++
			summary.Nodes += len(rows)
			summary.TotalNanos += agg.TimeInNanos
			tree++
		}

		uc.logger.Debug().
			Str("shard", shard.ID).
			Int("trees", tree).
			Int("nodes", summary.Nodes).
			Msg("shard flattened")

		report.Shards = append(report.Shards, shardReport)
		report.Summary = append(report.Summary, summary)
	}

	return report
}

func buildRows(shardID string, source entity.Source, tree int, root entity.ProfileNode, verbose bool) []entity.ReportRow {
	flat := Flatten(root)
	rows := make([]entity.ReportRow, 0, len(flat))
	for _, n := range flat {
		rows = append(rows, entity.ReportRow{
			ShardID:     shardID,
			Source:      source,
			Tree:        tree,
			Node:        n,
			Lines:       FormatNode(n, verbose),
			Depth:       n.Depth,
			TimeInNanos: n.TimeInNanos,
			Millis:      FormatMillis(n.TimeInNanos),
			Percent:     Percent(n),
			Type:        n.Type,
			Description: n.Description,
			Breakdown:   n.Breakdown,
		})
	}
	return rows
}

// printReport imprime cada shard seguido de uma linha em branco.
func (uc *ReportUseCase) printReport(report entity.Report, args *types.CLIArgs) {
	// Threshold 0 destaca todo nó que não seja raiz
	threshold := int64(args.HotThreshold)

	for _, shard := range report.Shards {
		uc.console.Println(shard.Header())
		for _, row := range shard.Rows {
			for i, line := range row.Lines {
				if i == 0 && args.Color && !row.Node.IsRoot() && row.Percent >= threshold {
					line = console.BoldRed(line)
				}
				uc.console.Println(line)
			}
		}
		uc.console.Println("")
	}
}

// renderSummary cria a tabela de resumo por shard.
func (uc *ReportUseCase) renderSummary(summaries []entity.ShardSummary) string {
	table := uc.console.CreateTable()
	table.AddColumn("Shard")
	table.AddColumn("Query Trees")
	table.AddColumn("Aggregation Trees")
	table.AddColumn("Nodes")
	table.AddColumn("Total (ms)")

	for _, s := range summaries {
		table.AddRow(
			s.ID,
			s.QueryTrees,
			s.AggregationTrees,
			humanize.Comma(int64(s.Nodes)),
			FormatMillis(s.TotalNanos),
		)
	}

	return table.Render()
}

// TopNodes returns the n slowest nodes of the report, slowest first.
// Ties keep report order.
func TopNodes(report entity.Report, n int) []types.NodeTiming {
	var rows []entity.ReportRow
	for _, shard := range report.Shards {
		rows = append(rows, shard.Rows...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TimeInNanos > rows[j].TimeInNanos
	})

	if n > len(rows) {
		n = len(rows)
	}

	timings := make([]types.NodeTiming, 0, n)
	for _, row := range rows[:n] {
		timings = append(timings, types.NodeTiming{
			Label:  fmt.Sprintf("[%s] %s", row.ShardID, row.Description),
			Millis: row.Millis,
			Nanos:  row.TimeInNanos,
		})
	}
	return timings
}

func (uc *ReportUseCase) exportReport(report entity.Report, args *types.CLIArgs) []string {
	var exported []string

	for _, reportType := range args.ReportType {
		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
				exported = append(exported, csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
				exported = append(exported, jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
				exported = append(exported, pdfPath)
			}
		default:
			uc.console.LogWarning("%s: %s", types.ErrUnsupportedReport, reportType)
		}
	}

	return exported
}

// uploadReports envia os arquivos exportados para o prefixo S3 informado.
func (uc *ReportUseCase) uploadReports(ctx context.Context, paths []string, prefix string) {
	status := uc.console.Status("Uploading reports to S3...")
	defer status.Stop()

	account, err := uc.storageRepo.CallerAccount(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("could not resolve AWS account")
		account = "unknown"
	}

	for _, path := range paths {
		dest := strings.TrimSuffix(prefix, "/") + "/" + filepath.Base(path)
		status.Update(fmt.Sprintf("Uploading %s", filepath.Base(path)))

		uri, err := uc.storageRepo.PutFile(ctx, path, dest)
		if err != nil {
			uc.console.LogError("Failed to upload %s: %s", path, err)
			continue
		}
		uc.console.LogSuccess("Uploaded %s (account %s)", uri, account)
	}
}
