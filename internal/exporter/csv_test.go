package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
)

func setupTestWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{
		BaseDir: tempDir,
		DataDir: filepath.Join(tempDir, "data"),
	})
	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriterWriteSimpleCSV(t *testing.T) {
	writer, tempDir := setupTestWriter(t)

	err := writer.WriteSimpleCSV("out.csv", []string{"year", "papers"}, [][]string{
		{"2020", "12"},
		{"2021", "7"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(tempDir, "data", "out.csv"))
	require.NoError(t, err)

	// The file starts with a UTF-8 BOM for Excel.
	assert.True(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"year", "papers"}, records[0])
	assert.Equal(t, []string{"2021", "7"}, records[2])
}

func TestCSVWriterAppend(t *testing.T) {
	writer, tempDir := setupTestWriter(t)

	require.NoError(t, writer.WriteSimpleCSV("log.csv", []string{"a", "b"}, [][]string{{"1", "2"}}))
	require.NoError(t, writer.AppendToCSV("log.csv", [][]string{{"3", "4"}}))

	raw, err := os.ReadFile(filepath.Join(tempDir, "data", "log.csv"))
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"3", "4"}, records[2])
}

func TestCSVWriterAbsolutePath(t *testing.T) {
	writer, _ := setupTestWriter(t)

	target := filepath.Join(t.TempDir(), "elsewhere", "abs.csv")
	err := writer.WriteSimpleCSV(target, []string{"x"}, [][]string{{"1"}})
	require.NoError(t, err)

	_, err = os.Stat(target)
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	writer, tempDir := setupTestWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"word", "count"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"covid", "42"}))
	require.NoError(t, stream.WriteRecord([]string{"vaccine", "17"}))
	require.NoError(t, stream.Close())

	raw, err := os.ReadFile(filepath.Join(tempDir, "data", "stream.csv"))
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"covid", "42"}, records[1])
}
