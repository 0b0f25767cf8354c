package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

func TestWorkbookExport(t *testing.T) {
	tempDir := t.TempDir()
	exporter := NewWorkbookExporter(&config.Paths{
		BaseDir: tempDir,
		DataDir: filepath.Join(tempDir, "data"),
	}, nil)

	summary := Summary{
		Overview: metadata.Overview{
			TotalPapers:    10,
			WithAbstract:   8,
			UniqueJournals: 4,
			YearMin:        2019,
			YearMax:        2022,
		},
		Years: []metadata.YearCount{
			{Year: 2019, Count: 2},
			{Year: 2020, Count: 8},
		},
		Journals: []metadata.GroupCount{{Name: "Lancet", Count: 5}},
		Sources:  []metadata.GroupCount{{Name: "PMC", Count: 7}},
		Words:    []metadata.WordCount{{Word: "covid", Count: 12}},
		Lengths:  metadata.LengthStats{Count: 8, Mean: 150, Median: 140, Max: 400},
	}

	require.NoError(t, exporter.Export(summary))

	f, err := excelize.OpenFile(filepath.Join(tempDir, "data", WorkbookFile))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{
		"Overview", "Publications by Year", "Top Journals", "Sources", "Title Words",
	}, sheets)

	total, err := f.GetCellValue("Overview", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10", total)

	year, err := f.GetCellValue("Publications by Year", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2020", year)

	journal, err := f.GetCellValue("Top Journals", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Lancet", journal)
}
