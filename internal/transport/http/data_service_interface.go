package http

import (
	"context"
	"io"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/services"
)

// DataServiceInterface is what the data handler needs from the data
// service. Declared on the consumer side so tests can swap in fakes.
type DataServiceInterface interface {
	Papers(ctx context.Context, params services.FilterParams) (*services.PapersPage, error)
	Stats(ctx context.Context, params services.FilterParams) (*services.Stats, error)
	YearCounts(ctx context.Context, params services.FilterParams) ([]metadata.YearCount, error)
	TopJournals(ctx context.Context, params services.FilterParams) ([]metadata.GroupCount, error)
	TopWords(ctx context.Context, params services.FilterParams) ([]metadata.WordCount, error)
	TopSources(ctx context.Context, params services.FilterParams) ([]metadata.GroupCount, error)
	ExportCSV(ctx context.Context, w io.Writer, params services.FilterParams) (int, error)
	ChartPath(name string) (string, error)
	Refresh(ctx context.Context) error
	Status() services.DatasetStatus
	InputPath() string
}
