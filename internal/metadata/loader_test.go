package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleHeader = "cord_uid,source_x,title,doi,pmcid,pubmed_id,license,abstract,publish_time,authors,journal,url"

func sampleCSV(rows ...string) string {
	return sampleHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestLoaderLoad(t *testing.T) {
	input := sampleCSV(
		`ug7v899j,PMC,Clinical features of culture-proven pneumonia,10.1186/1471-2334-1-6,PMC35282,11472636,no-cc,"OBJECTIVE: This study aimed to...",2001-07-04,"Madani, Tariq A; Al-Ghamdi, Aisha A",BMC Infect Dis,http://example.org/a`,
		`02tnwd4m,PMC,Nitric oxide: a pro-inflammatory mediator?,10.1186/rr14,PMC59543,11667967,no-cc,"Inflammatory diseases of the lung...",2000-08-15,"Vliet, Albert van der",Respir Res,http://example.org/b`,
	)

	loader := NewLoader(nil, LoadOptions{})
	result, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.RawRows)
	assert.Equal(t, 0, result.MalformedRows)
	require.Len(t, result.Papers, 2)

	first := result.Papers[0]
	assert.Equal(t, "ug7v899j", first.CordUID)
	assert.Equal(t, "Clinical features of culture-proven pneumonia", first.Title)
	assert.Equal(t, "BMC Infect Dis", first.Journal)
	assert.Equal(t, "2001-07-04", first.PublishTime)
	assert.Equal(t, "Madani, Tariq A; Al-Ghamdi, Aisha A", first.Authors)
}

func TestLoaderSkipsMalformedRows(t *testing.T) {
	input := sampleCSV(
		`a1,PMC,Good row,,,,,"abstract",2020-01-01,Someone,Journal,`,
		`b2,PMC,too few fields`,
		`c3,PMC,Also good,,,,,"text",2021-02-02,Other,Journal,`,
		`d4,PMC,extra,,,,,"text",2021-02-02,Other,Journal,,surplus,fields`,
	)

	loader := NewLoader(nil, LoadOptions{})
	result, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, result.RawRows)
	assert.Equal(t, 2, result.MalformedRows)
	require.Len(t, result.Papers, 2)
	assert.Equal(t, "Good row", result.Papers[0].Title)
	assert.Equal(t, "Also good", result.Papers[1].Title)
}

func TestLoaderColumnSubset(t *testing.T) {
	input := sampleCSV(
		`a1,PMC,Title only run,10.1/x,,,,"the abstract",2020-01-01,Someone,Some Journal,`,
	)

	loader := NewLoader(nil, LoadOptions{
		Columns: []string{ColTitle, ColJournal},
	})
	result, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Papers, 1)
	paper := result.Papers[0]
	assert.Equal(t, "Title only run", paper.Title)
	assert.Equal(t, "Some Journal", paper.Journal)
	assert.Empty(t, paper.Abstract)
	assert.Empty(t, paper.DOI)
	assert.Empty(t, paper.CordUID)
}

func TestLoaderRequiresTitleColumn(t *testing.T) {
	input := "cord_uid,journal\na1,BMJ\n"

	loader := NewLoader(nil, LoadOptions{})
	_, err := loader.Load(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required column "title"`)
}

func TestLoaderHeaderNormalization(t *testing.T) {
	input := "\ufeffCord_UID, Title ,JOURNAL\nx1,Case study,Lancet\n"

	loader := NewLoader(nil, LoadOptions{})
	result, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Papers, 1)
	assert.Equal(t, "x1", result.Papers[0].CordUID)
	assert.Equal(t, "Case study", result.Papers[0].Title)
	assert.Equal(t, "Lancet", result.Papers[0].Journal)
}

func TestLoaderLatin1Encoding(t *testing.T) {
	raw := sampleCSV(`a1,PMC,Étude de cas,,,,,"résumé",2020-01-01,Someone,Médecine,`)
	encoded, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	loader := NewLoader(nil, LoadOptions{Encoding: "latin-1"})
	result, err := loader.Load(strings.NewReader(encoded))
	require.NoError(t, err)

	require.Len(t, result.Papers, 1)
	assert.Equal(t, "Étude de cas", result.Papers[0].Title)
	assert.Equal(t, "Médecine", result.Papers[0].Journal)
}

func TestLoaderUnsupportedEncoding(t *testing.T) {
	loader := NewLoader(nil, LoadOptions{Encoding: "ebcdic"})
	_, err := loader.Load(strings.NewReader(sampleCSV()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestLoaderMissingFileIsFatal(t *testing.T) {
	loader := NewLoader(nil, LoadOptions{})
	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing or unreadable")
}

func TestLoaderSemicolonDelimiter(t *testing.T) {
	input := "title;journal\nSemicolons everywhere;Nature\n"
	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))

	loader := NewLoader(nil, LoadOptions{Delimiter: ';'})
	result, err := loader.LoadFile(path)
	require.NoError(t, err)

	require.Len(t, result.Papers, 1)
	assert.Equal(t, "Semicolons everywhere", result.Papers[0].Title)
	assert.Equal(t, "Nature", result.Papers[0].Journal)
}
