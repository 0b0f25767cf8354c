package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/infrastructure"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/services"
)

const appTestCSV = `cord_uid,source_x,title,abstract,publish_time,journal
a1,PMC,COVID-19 vaccine trial,"A trial.",2020-05-01,Lancet
a2,WHO,Coronavirus in children,"Pediatric cases.",2021-02-10,BMJ
`

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "metadata.csv"), []byte(appTestCSV), 0644))

	cfg := config.Default()
	cfg.Paths.BaseDir = tempDir
	cfg.Logging.Output = "stdout"
	cfg.Security.RateLimit.Enabled = false

	application, err := NewApplicationWithConfig(cfg)
	require.NoError(t, err)
	return application
}

func TestNewApplication(t *testing.T) {
	application := newTestApplication(t)

	assert.NotNil(t, application.Router)
	assert.NotNil(t, application.Server)
	assert.NotNil(t, application.DataService)
	assert.NotNil(t, application.HealthService)
	assert.Contains(t, application.Server.Addr, ":8080")
}

func TestApplicationHealthEndpoint(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	// Dataset not loaded yet (loading happens in Start).
	assert.Equal(t, "degraded", status.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApplicationServesAPIAfterLoad(t *testing.T) {
	application := newTestApplication(t)
	require.NoError(t, application.DataService.Load(context.Background()))

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/papers?q=vaccine", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page services.PapersPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
}

func TestApplicationPapersBeforeLoad(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/papers", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestApplicationMetricsEndpoint(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
