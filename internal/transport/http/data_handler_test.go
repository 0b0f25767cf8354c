package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	apierrors "github.com/ByteCortex00/Frameworks-Assignment/internal/errors"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/services"
)

// fakeDataService implements DataServiceInterface for handler tests.
type fakeDataService struct {
	papers     *services.PapersPage
	stats      *services.Stats
	years      []metadata.YearCount
	journals   []metadata.GroupCount
	words      []metadata.WordCount
	sources    []metadata.GroupCount
	chartPath  string
	inputPath  string
	status     *services.DatasetStatus
	err        error
	lastParams services.FilterParams
	refreshed  bool
}

func (f *fakeDataService) Papers(_ context.Context, params services.FilterParams) (*services.PapersPage, error) {
	f.lastParams = params
	return f.papers, f.err
}

func (f *fakeDataService) Stats(_ context.Context, params services.FilterParams) (*services.Stats, error) {
	f.lastParams = params
	return f.stats, f.err
}

func (f *fakeDataService) YearCounts(_ context.Context, params services.FilterParams) ([]metadata.YearCount, error) {
	f.lastParams = params
	return f.years, f.err
}

func (f *fakeDataService) TopJournals(_ context.Context, params services.FilterParams) ([]metadata.GroupCount, error) {
	f.lastParams = params
	return f.journals, f.err
}

func (f *fakeDataService) TopWords(_ context.Context, params services.FilterParams) ([]metadata.WordCount, error) {
	f.lastParams = params
	return f.words, f.err
}

func (f *fakeDataService) TopSources(_ context.Context, params services.FilterParams) ([]metadata.GroupCount, error) {
	f.lastParams = params
	return f.sources, f.err
}

func (f *fakeDataService) ExportCSV(_ context.Context, w io.Writer, params services.FilterParams) (int, error) {
	f.lastParams = params
	if f.err != nil {
		return 0, f.err
	}
	_, err := w.Write([]byte("\xEF\xBB\xBFcord_uid,title\na1,Test\n"))
	return 1, err
}

func (f *fakeDataService) ChartPath(name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.chartPath, nil
}

func (f *fakeDataService) Refresh(context.Context) error {
	f.refreshed = true
	return f.err
}

func (f *fakeDataService) Status() services.DatasetStatus {
	if f.status != nil {
		return *f.status
	}
	return services.DatasetStatus{Loaded: true, Rows: 3}
}

func (f *fakeDataService) InputPath() string {
	return f.inputPath
}

// newLoadedDataService builds a real data service over a small CSV.
func newLoadedDataService(t *testing.T) *services.DataService {
	t.Helper()

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	csv := "cord_uid,title,abstract,publish_time,journal,source_x\n" +
		"a1,Test paper,An abstract,2020-01-01,Lancet,PMC\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "metadata.csv"), []byte(csv), 0644))

	cfg := config.Default()
	cfg.Dataset.InputFile = "metadata.csv"
	ds := services.NewDataService(cfg, &config.Paths{
		BaseDir: tempDir,
		DataDir: dataDir,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, ds.Load(context.Background()))
	return ds
}

func newTestHandler(fake *fakeDataService) *DataHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDataHandler(fake, logger, apierrors.NewErrorHandler(logger, false))
}

func doRequest(t *testing.T, h *DataHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestGetPapers(t *testing.T) {
	fake := &fakeDataService{
		papers: &services.PapersPage{
			Papers: []metadata.Paper{{CordUID: "a1", Title: "Test paper"}},
			Total:  1,
			Limit:  50,
		},
	}
	h := newTestHandler(fake)

	rec := doRequest(t, h, http.MethodGet, "/papers?year_from=2020&year_to=2021&journal=Lancet&journal=BMJ&has_abstract=true&q=covid")
	require.Equal(t, http.StatusOK, rec.Code)

	var page services.PapersPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "a1", page.Papers[0].CordUID)

	// The query string reaches the service as parsed params.
	assert.Equal(t, 2020, fake.lastParams.YearFrom)
	assert.Equal(t, 2021, fake.lastParams.YearTo)
	assert.Equal(t, []string{"Lancet", "BMJ"}, fake.lastParams.Journals)
	require.NotNil(t, fake.lastParams.HasAbstract)
	assert.True(t, *fake.lastParams.HasAbstract)
	assert.Equal(t, "covid", fake.lastParams.Query)
}

func TestGetPapersBadQuery(t *testing.T) {
	h := newTestHandler(&fakeDataService{})

	tests := []struct {
		name   string
		target string
	}{
		{"non-integer year", "/papers?year_from=abc"},
		{"non-boolean has_abstract", "/papers?has_abstract=maybe"},
		{"non-integer limit", "/papers?limit=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
		})
	}
}

func TestGetPapersDatasetNotLoaded(t *testing.T) {
	h := newTestHandler(&fakeDataService{err: services.ErrDatasetNotLoaded})

	rec := doRequest(t, h, http.MethodGet, "/papers")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestGetStats(t *testing.T) {
	fake := &fakeDataService{
		stats: &services.Stats{
			Overview: metadata.Overview{TotalPapers: 42},
			Years:    []metadata.YearCount{{Year: 2020, Count: 42}},
		},
	}
	h := newTestHandler(fake)

	rec := doRequest(t, h, http.MethodGet, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 42, stats.Overview.TotalPapers)
}

func TestAggregateEndpoints(t *testing.T) {
	fake := &fakeDataService{
		years:    []metadata.YearCount{{Year: 2020, Count: 5}},
		journals: []metadata.GroupCount{{Name: "Lancet", Count: 3}},
		words:    []metadata.WordCount{{Word: "covid", Count: 7}},
		sources:  []metadata.GroupCount{{Name: "PMC", Count: 9}},
	}
	h := newTestHandler(fake)

	for _, target := range []string{"/stats/years", "/stats/journals", "/stats/words", "/stats/sources"} {
		rec := doRequest(t, h, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, target)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body["status"], target)
		assert.NotNil(t, body["data"], target)
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestHandler(&fakeDataService{})

	rec := doRequest(t, h, http.MethodGet, "/export/csv?q=covid")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\xEF\xBB\xBF"))
}

func TestExportCSVInvalidFilter(t *testing.T) {
	h := newTestHandler(&fakeDataService{})

	rec := doRequest(t, h, http.MethodGet, "/export/csv?year_from=2021&year_to=2019")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// No download headers on a rejected request.
	assert.NotContains(t, rec.Header().Get("Content-Type"), "text/csv")
}

func TestExportCSVDatasetNotLoaded(t *testing.T) {
	h := newTestHandler(&fakeDataService{
		status: &services.DatasetStatus{},
		err:    services.ErrDatasetNotLoaded,
	})

	rec := doRequest(t, h, http.MethodGet, "/export/csv")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	// A failed export must not look like a successful download.
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestGetChart(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "publications_by_year.png")
	require.NoError(t, os.WriteFile(chart, []byte("\x89PNG\r\n\x1a\nfake"), 0644))

	h := newTestHandler(&fakeDataService{chartPath: chart})

	rec := doRequest(t, h, http.MethodGet, "/charts/publications_by_year.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestGetChartNotFound(t *testing.T) {
	h := newTestHandler(&fakeDataService{err: services.ErrChartNotFound})

	rec := doRequest(t, h, http.MethodGet, "/charts/nope.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh(t *testing.T) {
	fake := &fakeDataService{}
	h := newTestHandler(fake)

	rec := doRequest(t, h, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fake.refreshed)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
}

func TestRefreshMissingDatasetFile(t *testing.T) {
	fake := &fakeDataService{
		inputPath: "data/metadata.csv",
		err:       fmt.Errorf("dataset file data/metadata.csv is missing or unreadable: %w", fs.ErrNotExist),
	}
	h := newTestHandler(fake)

	rec := doRequest(t, h, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/errors/dataset/not-found", body["type"])
	assert.Contains(t, body["detail"], "data/metadata.csv")
}

func TestHealthHandler(t *testing.T) {
	// Health rides on a real service pair; build a minimal loaded one.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hs := services.NewHealthService("test", "", newLoadedDataService(t), logger)
	handler := NewHealthHandler(hs, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.Dataset.Loaded)
}
