package http

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/ByteCortex00/Frameworks-Assignment/internal/errors"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/middleware"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/services"
)

// DataHandler serves the dataset query endpoints with RFC 7807 errors.
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/papers", h.GetPapers)

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.GetStats)
		r.Get("/years", h.GetYears)
		r.Get("/journals", h.GetJournals)
		r.Get("/words", h.GetWords)
		r.Get("/sources", h.GetSources)
	})

	r.Get("/export/csv", h.ExportCSV)
	r.Get("/charts/{name}", h.GetChart)
	r.Post("/refresh", h.Refresh)

	return r
}

// GetPapers handles GET /api/papers.
func (h *DataHandler) GetPapers(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	page, err := h.service.Papers(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, page)
}

// GetStats handles GET /api/stats.
func (h *DataHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, stats)
}

// GetYears handles GET /api/stats/years.
func (h *DataHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	h.aggregateResponse(w, r, func(params services.FilterParams) (interface{}, error) {
		return h.service.YearCounts(r.Context(), params)
	})
}

// GetJournals handles GET /api/stats/journals.
func (h *DataHandler) GetJournals(w http.ResponseWriter, r *http.Request) {
	h.aggregateResponse(w, r, func(params services.FilterParams) (interface{}, error) {
		return h.service.TopJournals(r.Context(), params)
	})
}

// GetWords handles GET /api/stats/words.
func (h *DataHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	h.aggregateResponse(w, r, func(params services.FilterParams) (interface{}, error) {
		return h.service.TopWords(r.Context(), params)
	})
}

// GetSources handles GET /api/stats/sources.
func (h *DataHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	h.aggregateResponse(w, r, func(params services.FilterParams) (interface{}, error) {
		return h.service.TopSources(r.Context(), params)
	})
}

func (h *DataHandler) aggregateResponse(w http.ResponseWriter, r *http.Request, fetch func(services.FilterParams) (interface{}, error)) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data, err := fetch(params)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// ExportCSV handles GET /api/export/csv. The filtered table is streamed
// as a download rather than rendered as JSON.
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Validate and check the cache before committing to a 200 with
	// download headers.
	if err := params.Validate(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if !h.service.Status().Loaded {
		h.handleServiceError(w, r, services.ErrDatasetNotLoaded)
		return
	}

	filename := fmt.Sprintf("metadata_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	rows, err := h.service.ExportCSV(r.Context(), w, params)
	if err != nil {
		// Headers may already be written; log and give up on the body.
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())))
		return
	}

	h.logger.InfoContext(r.Context(), "csv export served",
		slog.Int("rows", rows),
		slog.String("filename", filename))
}

// GetChart handles GET /api/charts/{name}, serving the rendered PNG.
func (h *DataHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	path, err := h.service.ChartPath(name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

// Refresh handles POST /api/refresh, reloading the dataset from disk.
func (h *DataHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset refresh requested",
		slog.String("request_id", middleware.GetRequestID(r.Context())))

	if err := h.service.Refresh(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"dataset": h.service.Status(),
	})
}

// handleServiceError maps service sentinel errors onto API errors.
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "service error",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())))

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		h.errorHandler.HandleError(w, r, apierrors.DatasetNotFoundError(h.service.InputPath(), err))
	case errors.Is(err, services.ErrDatasetNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotLoaded)
	case errors.Is(err, services.ErrChartNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrChartNotFound)
	case errors.Is(err, services.ErrInvalidFilter):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_FILTER",
			"Filter parameters are invalid",
			err.Error(),
		))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// parseFilterParams reads the shared filter query parameters.
func parseFilterParams(r *http.Request) (services.FilterParams, error) {
	q := r.URL.Query()
	params := services.FilterParams{
		Journals: q["journal"],
		Query:    q.Get("q"),
	}

	intParams := []struct {
		name   string
		target *int
	}{
		{"year_from", &params.YearFrom},
		{"year_to", &params.YearTo},
		{"limit", &params.Limit},
		{"offset", &params.Offset},
	}
	for _, p := range intParams {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, apierrors.ErrValidation(p.name, fmt.Sprintf("must be an integer, got %q", raw))
		}
		*p.target = v
	}

	if raw := q.Get("has_abstract"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return params, apierrors.ErrValidation("has_abstract", fmt.Sprintf("must be a boolean, got %q", raw))
		}
		params.HasAbstract = &v
	}

	return params, nil
}
