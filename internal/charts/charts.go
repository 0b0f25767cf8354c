// Package charts renders the aggregate views as PNG images using
// gonum/plot. The images are written to the plots directory and served
// by the dashboard.
package charts

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/exporter"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

// Chart file names inside the plots directory.
const (
	YearsChart    = "publications_by_year.png"
	JournalsChart = "top_journals.png"
	WordsChart    = "word_frequency.png"
	LengthsChart  = "abstract_length_distribution.png"
	SourcesChart  = "source_distribution.png"
)

// Names lists every chart the renderer produces.
func Names() []string {
	return []string{YearsChart, JournalsChart, WordsChart, LengthsChart, SourcesChart}
}

var (
	barFill = color.RGBA{R: 0x33, G: 0x78, B: 0xB5, A: 0xFF}
	barLine = color.RGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 0xFF}
)

// Renderer writes chart PNGs for a dataset summary.
type Renderer struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewRenderer creates a chart renderer.
func NewRenderer(paths *config.Paths, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{paths: paths, logger: logger}
}

// RenderAll renders every chart for the given summary. It fails on the
// first chart that cannot be written.
func (r *Renderer) RenderAll(summary exporter.Summary) error {
	if err := os.MkdirAll(r.paths.PlotsDir, 0755); err != nil {
		return fmt.Errorf("failed to create plots directory: %w", err)
	}

	steps := []struct {
		name   string
		render func() error
	}{
		{YearsChart, func() error { return r.PublicationsByYear(summary.Years) }},
		{JournalsChart, func() error { return r.TopJournals(summary.Journals) }},
		{WordsChart, func() error { return r.WordFrequency(summary.Words) }},
		{LengthsChart, func() error { return r.AbstractLengthDistribution(summary.Lengths) }},
		{SourcesChart, func() error { return r.SourceDistribution(summary.Sources) }},
	}

	for _, step := range steps {
		if err := step.render(); err != nil {
			return fmt.Errorf("failed to render %s: %w", step.name, err)
		}
		r.logger.Info("rendered chart", slog.String("file", step.name))
	}
	return nil
}

// PublicationsByYear renders a vertical bar chart of papers per year.
func (r *Renderer) PublicationsByYear(counts []metadata.YearCount) error {
	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, yc := range counts {
		values[i] = float64(yc.Count)
		labels[i] = strconv.Itoa(yc.Year)
	}

	p := plot.New()
	p.Title.Text = "Publications by Year"
	p.Y.Label.Text = "Papers"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	styleBars(bars)
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, YearsChart, 10*vg.Inch, 5*vg.Inch)
}

// TopJournals renders a horizontal bar chart of the most frequent journals.
func (r *Renderer) TopJournals(groups []metadata.GroupCount) error {
	return r.groupChart(JournalsChart, "Top Journals", groups)
}

// SourceDistribution renders the paper counts per source database.
func (r *Renderer) SourceDistribution(groups []metadata.GroupCount) error {
	return r.groupChart(SourcesChart, "Papers by Source", groups)
}

func (r *Renderer) groupChart(file, title string, groups []metadata.GroupCount) error {
	// Reverse so the largest group sits at the top of the chart.
	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		j := len(groups) - 1 - i
		values[j] = float64(g.Count)
		labels[j] = g.Name
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Papers"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return err
	}
	styleBars(bars)
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(labels...)

	return r.save(p, file, 10*vg.Inch, 6*vg.Inch)
}

// WordFrequency renders the most frequent title words.
func (r *Renderer) WordFrequency(words []metadata.WordCount) error {
	values := make(plotter.Values, len(words))
	labels := make([]string, len(words))
	for i, wc := range words {
		j := len(words) - 1 - i
		values[j] = float64(wc.Count)
		labels[j] = wc.Word
	}

	p := plot.New()
	p.Title.Text = "Most Frequent Title Words"
	p.X.Label.Text = "Occurrences"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	styleBars(bars)
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(labels...)

	return r.save(p, WordsChart, 10*vg.Inch, 6*vg.Inch)
}

// AbstractLengthDistribution renders the abstract word-count histogram.
func (r *Renderer) AbstractLengthDistribution(stats metadata.LengthStats) error {
	values := make(plotter.Values, len(stats.Histogram))
	labels := make([]string, len(stats.Histogram))
	for i, bin := range stats.Histogram {
		values[i] = float64(bin.Count)
		labels[i] = strconv.Itoa(bin.From)
	}

	p := plot.New()
	p.Title.Text = "Abstract Length Distribution"
	p.X.Label.Text = "Words"
	p.Y.Label.Text = "Papers"

	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return err
	}
	styleBars(bars)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = -0.8

	return r.save(p, LengthsChart, 10*vg.Inch, 5*vg.Inch)
}

func (r *Renderer) save(p *plot.Plot, file string, w, h vg.Length) error {
	fullPath := r.paths.GetPlotPath(file)
	if err := p.Save(w, h, fullPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", fullPath, err)
	}
	return nil
}

func styleBars(bars *plotter.BarChart) {
	bars.Color = barFill
	bars.LineStyle.Color = barLine
}
