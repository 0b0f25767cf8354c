// Command analyze runs the batch pipeline: load the CORD-19 metadata
// CSV, clean it, compute the aggregate views, and write the CSV
// reports, the Excel workbook, and the chart PNGs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/charts"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/exporter"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/infrastructure"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

func main() {
	inFile := flag.String("in", "", "input metadata CSV (defaults to the configured dataset file)")
	outDir := flag.String("out", "", "output directory for CSV reports (defaults to the data dir)")
	plotsDir := flag.String("plots", "", "output directory for chart PNGs (defaults to the plots dir)")
	encoding := flag.String("encoding", "", "input encoding: utf-8, latin-1, windows-1252, utf-16le, utf-16be")
	topN := flag.Int("top", 0, "number of entries in top-N views (defaults to the configured value)")
	minYear := flag.Int("min-year", 0, "earliest plausible publication year (defaults to 1900)")
	noCharts := flag.Bool("no-charts", false, "skip chart rendering")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	applyFlags(cfg, *inFile, *outDir, *plotsDir, *encoding, *topN, *minYear)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, paths, logger, !*noCharts); err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, inFile, outDir, plotsDir, encoding string, topN, minYear int) {
	if inFile != "" {
		cfg.Dataset.InputFile = inFile
	}
	if outDir != "" {
		cfg.Paths.DataDir = outDir
	}
	if plotsDir != "" {
		cfg.Paths.PlotsDir = plotsDir
	}
	if encoding != "" {
		cfg.Dataset.Encoding = encoding
	}
	if topN > 0 {
		cfg.Dataset.TopN = topN
	}
	if minYear > 0 {
		cfg.Dataset.MinYear = minYear
	}
}

func run(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger, renderCharts bool) error {
	start := time.Now()

	inputPath := cfg.Dataset.InputFile
	if !filepath.IsAbs(inputPath) {
		inputPath = paths.GetDataPath(inputPath)
	}

	logger.InfoContext(ctx, "Starting metadata analysis",
		slog.String("input_file", inputPath),
		slog.String("data_dir", paths.DataDir),
		slog.String("plots_dir", paths.PlotsDir))

	delimiter := ','
	if cfg.Dataset.Delimiter != "" {
		delimiter = []rune(cfg.Dataset.Delimiter)[0]
	}

	loader := metadata.NewLoader(logger, metadata.LoadOptions{
		Delimiter: delimiter,
		Encoding:  cfg.Dataset.Encoding,
	})
	result, err := loader.LoadFile(inputPath)
	if err != nil {
		return err
	}

	cleaner := metadata.NewCleaner(logger, metadata.CleanerConfig{MinYear: cfg.Dataset.MinYear})
	papers, cleanStats := cleaner.Clean(ctx, result.Papers)
	if len(papers) == 0 {
		return fmt.Errorf("no usable rows in %s", inputPath)
	}

	aggregator := metadata.NewAggregator(logger)
	topN := cfg.Dataset.TopN
	summary := exporter.Summary{
		Overview: aggregator.Summarize(ctx, papers),
		Years:    aggregator.CountByYear(papers),
		Journals: aggregator.TopJournals(papers, topN),
		Sources:  aggregator.TopSources(papers, topN),
		Words:    aggregator.TopWords(papers, topN),
		Lengths:  aggregator.AbstractLengthStats(papers, 30),
	}

	writer := exporter.NewCSVWriter(paths)
	ds := exporter.NewDatasetExporter(writer, logger)
	if err := ds.ExportCleaned(papers); err != nil {
		return err
	}
	if err := ds.ExportYearCounts(summary.Years); err != nil {
		return err
	}
	if err := ds.ExportGroupCounts(exporter.JournalsFile, "journal", summary.Journals); err != nil {
		return err
	}
	if err := ds.ExportGroupCounts(exporter.SourcesFile, "source", summary.Sources); err != nil {
		return err
	}
	if err := ds.ExportWordCounts(summary.Words); err != nil {
		return err
	}

	workbook := exporter.NewWorkbookExporter(paths, logger)
	if err := workbook.Export(summary); err != nil {
		return err
	}

	if renderCharts {
		renderer := charts.NewRenderer(paths, logger)
		if err := renderer.RenderAll(summary); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "Analysis complete",
		slog.Int("raw_rows", result.RawRows),
		slog.Int("clean_rows", len(papers)),
		slog.Int("malformed_rows", result.MalformedRows),
		slog.Int("duplicates_dropped", cleanStats.DuplicatesDropped),
		slog.Duration("elapsed", time.Since(start)))

	printSummary(aggregator, summary, cleanStats, result)
	return nil
}

func printSummary(agg *metadata.Aggregator, summary exporter.Summary, cleanStats metadata.CleanStats, result *metadata.LoadResult) {
	fmt.Printf("\nDataset summary\n")
	fmt.Printf("  rows loaded:        %d (malformed skipped: %d)\n", result.RawRows, result.MalformedRows)
	fmt.Printf("  rows after cleanup: %d (duplicates: %d, empty: %d, bad year: %d)\n",
		summary.Overview.TotalPapers, cleanStats.DuplicatesDropped,
		cleanStats.EmptyDropped, cleanStats.BadYearDropped)
	fmt.Printf("  with abstract:      %d\n", summary.Overview.WithAbstract)
	fmt.Printf("  unique journals:    %d\n", summary.Overview.UniqueJournals)
	if summary.Overview.YearMin != 0 {
		fmt.Printf("  year range:         %d-%d\n", summary.Overview.YearMin, summary.Overview.YearMax)
	}
	if peak, ok := agg.PeakYear(summary.Years); ok {
		fmt.Printf("  peak year:          %d (%d papers)\n", peak.Year, peak.Count)
	}
	if len(summary.Words) > 0 {
		fmt.Printf("  top title word:     %q (%d occurrences)\n", summary.Words[0].Word, summary.Words[0].Count)
	}
}
