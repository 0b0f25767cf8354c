package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/charts"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/exporter"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

// PapersPage is one page of a filtered paper query.
type PapersPage struct {
	Papers []metadata.Paper `json:"papers"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// Stats bundles every aggregate view over a (possibly filtered) table.
type Stats struct {
	Overview metadata.Overview     `json:"overview"`
	Years    []metadata.YearCount  `json:"years"`
	Journals []metadata.GroupCount `json:"journals"`
	Sources  []metadata.GroupCount `json:"sources"`
	Words    []metadata.WordCount  `json:"words"`
	Lengths  metadata.LengthStats  `json:"abstract_lengths"`
}

// DatasetStatus describes the cached table for health reporting.
type DatasetStatus struct {
	Loaded        bool      `json:"loaded"`
	Rows          int       `json:"rows"`
	RawRows       int       `json:"raw_rows"`
	MalformedRows int       `json:"malformed_rows"`
	LoadedAt      time.Time `json:"loaded_at,omitempty"`
}

// DataService loads the metadata table once and serves filtered queries
// and aggregates from the in-memory copy.
type DataService struct {
	config   *config.Config
	paths    *config.Paths
	logger   *slog.Logger
	renderer *charts.Renderer

	loader     *metadata.Loader
	cleaner    *metadata.Cleaner
	aggregator *metadata.Aggregator

	mu       sync.RWMutex
	papers   []metadata.Paper
	status   DatasetStatus
	loadedAt time.Time
}

// NewDataService creates a data service. The renderer is optional; when
// present, charts are re-rendered on every load.
func NewDataService(cfg *config.Config, paths *config.Paths, renderer *charts.Renderer, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	delimiter := ','
	if cfg.Dataset.Delimiter != "" {
		delimiter = []rune(cfg.Dataset.Delimiter)[0]
	}

	logger.Info("DataService initialized",
		slog.String("input_file", cfg.Dataset.InputFile),
		slog.String("data_dir", paths.DataDir),
		slog.String("plots_dir", paths.PlotsDir))

	return &DataService{
		config:   cfg,
		paths:    paths,
		logger:   logger,
		renderer: renderer,
		loader: metadata.NewLoader(logger, metadata.LoadOptions{
			Delimiter: delimiter,
			Encoding:  cfg.Dataset.Encoding,
		}),
		cleaner: metadata.NewCleaner(logger, metadata.CleanerConfig{
			MinYear: cfg.Dataset.MinYear,
		}),
		aggregator: metadata.NewAggregator(logger),
	}
}

// InputPath resolves the configured dataset file.
func (ds *DataService) InputPath() string {
	if filepath.IsAbs(ds.config.Dataset.InputFile) {
		return ds.config.Dataset.InputFile
	}
	return ds.paths.GetDataPath(ds.config.Dataset.InputFile)
}

// Load reads, cleans, and caches the dataset. Charts are re-rendered
// when a renderer is attached.
func (ds *DataService) Load(ctx context.Context) error {
	start := time.Now()

	result, err := ds.loader.LoadFile(ds.InputPath())
	if err != nil {
		return err
	}

	papers, cleanStats := ds.cleaner.Clean(ctx, result.Papers)
	if len(papers) == 0 {
		return ErrDatasetEmpty
	}

	ds.mu.Lock()
	ds.papers = papers
	ds.loadedAt = time.Now()
	ds.status = DatasetStatus{
		Loaded:        true,
		Rows:          len(papers),
		RawRows:       result.RawRows,
		MalformedRows: result.MalformedRows,
		LoadedAt:      ds.loadedAt,
	}
	ds.mu.Unlock()

	ds.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("raw_rows", result.RawRows),
		slog.Int("clean_rows", len(papers)),
		slog.Int("malformed_rows", result.MalformedRows),
		slog.Int("duplicates_dropped", cleanStats.DuplicatesDropped),
		slog.Duration("elapsed", time.Since(start)))

	if ds.renderer != nil {
		summary := ds.buildSummary(ctx, papers)
		if err := ds.renderer.RenderAll(summary); err != nil {
			return fmt.Errorf("failed to render charts: %w", err)
		}
	}
	return nil
}

// Refresh reloads the dataset from disk.
func (ds *DataService) Refresh(ctx context.Context) error {
	ds.logger.InfoContext(ctx, "refreshing dataset", slog.String("input_file", ds.InputPath()))
	return ds.Load(ctx)
}

// Status reports the cached table state.
func (ds *DataService) Status() DatasetStatus {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.status
}

// Papers runs a filtered, paginated query against the cached table.
func (ds *DataService) Papers(ctx context.Context, params FilterParams) (*PapersPage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	table, err := ds.snapshot()
	if err != nil {
		return nil, err
	}

	matched := params.Filter().Apply(table)
	limit, offset := params.page()

	page := &PapersPage{
		Total:  len(matched),
		Limit:  limit,
		Offset: offset,
		Papers: []metadata.Paper{},
	}
	if offset < len(matched) {
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Papers = matched[offset:end]
	}

	ds.logger.DebugContext(ctx, "paper query served",
		slog.Int("matched", page.Total),
		slog.Int("returned", len(page.Papers)))
	return page, nil
}

// Stats computes every aggregate view over the filtered table.
func (ds *DataService) Stats(ctx context.Context, params FilterParams) (*Stats, error) {
	matched, err := ds.filtered(params)
	if err != nil {
		return nil, err
	}

	topN := ds.config.Dataset.TopN
	return &Stats{
		Overview: ds.aggregator.Summarize(ctx, matched),
		Years:    ds.aggregator.CountByYear(matched),
		Journals: ds.aggregator.TopJournals(matched, topN),
		Sources:  ds.aggregator.TopSources(matched, topN),
		Words:    ds.aggregator.TopWords(matched, topN),
		Lengths:  ds.aggregator.AbstractLengthStats(matched, 30),
	}, nil
}

// YearCounts returns papers-per-year over the filtered table.
func (ds *DataService) YearCounts(ctx context.Context, params FilterParams) ([]metadata.YearCount, error) {
	matched, err := ds.filtered(params)
	if err != nil {
		return nil, err
	}
	return ds.aggregator.CountByYear(matched), nil
}

// TopJournals returns the most frequent journals over the filtered table.
func (ds *DataService) TopJournals(ctx context.Context, params FilterParams) ([]metadata.GroupCount, error) {
	matched, err := ds.filtered(params)
	if err != nil {
		return nil, err
	}
	return ds.aggregator.TopJournals(matched, ds.config.Dataset.TopN), nil
}

// TopSources returns the source-database distribution over the filtered table.
func (ds *DataService) TopSources(ctx context.Context, params FilterParams) ([]metadata.GroupCount, error) {
	matched, err := ds.filtered(params)
	if err != nil {
		return nil, err
	}
	return ds.aggregator.TopSources(matched, ds.config.Dataset.TopN), nil
}

// TopWords returns the most frequent title words over the filtered table.
func (ds *DataService) TopWords(ctx context.Context, params FilterParams) ([]metadata.WordCount, error) {
	matched, err := ds.filtered(params)
	if err != nil {
		return nil, err
	}
	return ds.aggregator.TopWords(matched, ds.config.Dataset.TopN), nil
}

// ExportCSV streams the filtered table as a CSV download.
func (ds *DataService) ExportCSV(ctx context.Context, w io.Writer, params FilterParams) (int, error) {
	matched, err := ds.filtered(params)
	if err != nil {
		return 0, err
	}
	if err := exporter.WriteTable(w, matched); err != nil {
		return 0, err
	}

	ds.logger.InfoContext(ctx, "exported filtered table",
		slog.Int("rows", len(matched)))
	return len(matched), nil
}

// ChartPath resolves a chart name to its PNG on disk.
func (ds *DataService) ChartPath(name string) (string, error) {
	known := false
	for _, n := range charts.Names() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return "", fmt.Errorf("%w: %s", ErrChartNotFound, name)
	}

	fullPath := ds.paths.GetPlotPath(name)
	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrChartNotFound, name)
	}
	return fullPath, nil
}

func (ds *DataService) buildSummary(ctx context.Context, papers []metadata.Paper) exporter.Summary {
	topN := ds.config.Dataset.TopN
	return exporter.Summary{
		Overview: ds.aggregator.Summarize(ctx, papers),
		Years:    ds.aggregator.CountByYear(papers),
		Journals: ds.aggregator.TopJournals(papers, topN),
		Sources:  ds.aggregator.TopSources(papers, topN),
		Words:    ds.aggregator.TopWords(papers, topN),
		Lengths:  ds.aggregator.AbstractLengthStats(papers, 30),
	}
}

func (ds *DataService) filtered(params FilterParams) ([]metadata.Paper, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	table, err := ds.snapshot()
	if err != nil {
		return nil, err
	}
	return params.Filter().Apply(table), nil
}

func (ds *DataService) snapshot() ([]metadata.Paper, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if !ds.status.Loaded {
		return nil, ErrDatasetNotLoaded
	}
	return ds.papers, nil
}
