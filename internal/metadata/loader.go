package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadOptions configures how the metadata file is read.
type LoadOptions struct {
	Delimiter rune     // field delimiter, ',' when zero
	Encoding  string   // input encoding, utf-8 when empty
	Columns   []string // column subset to load, DefaultColumns when empty
}

// LoadResult carries the loaded rows together with ingest counters.
type LoadResult struct {
	Papers        []Paper
	RawRows       int // data rows seen, malformed included
	MalformedRows int // rows skipped due to CSV errors or field-count mismatch
}

// Loader reads a delimited metadata file into an in-memory table.
type Loader struct {
	logger *slog.Logger
	opts   LoadOptions
}

// NewLoader creates a loader with the given options.
func NewLoader(logger *slog.Logger, opts LoadOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Encoding == "" {
		opts.Encoding = "utf-8"
	}
	if len(opts.Columns) == 0 {
		opts.Columns = DefaultColumns()
	}
	return &Loader{logger: logger, opts: opts}
}

// LoadFile opens and reads the metadata file. A missing or unreadable file
// is the single fatal error kind; everything row-level is skipped and counted.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset file %s is missing or unreadable: %w", path, err)
	}
	defer file.Close()

	result, err := l.Load(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	return result, nil
}

// Load reads the metadata table from r.
func (l *Loader) Load(r io.Reader) (*LoadResult, error) {
	decoded, err := decodeReader(r, l.opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = l.opts.Delimiter
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columnMap := mapColumns(header)
	l.logger.Debug("mapped header columns",
		slog.Int("header_fields", len(header)),
		slog.Int("known_columns", len(columnMap)))

	// Title is the only column the pipeline cannot work without.
	if _, ok := columnMap[ColTitle]; !ok {
		return nil, fmt.Errorf("required column %q not found in header", ColTitle)
	}

	wanted := make(map[string]bool, len(l.opts.Columns))
	for _, col := range l.opts.Columns {
		wanted[strings.ToLower(strings.TrimSpace(col))] = true
	}

	result := &LoadResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.RawRows++
				result.MalformedRows++
				l.logger.Debug("skipping malformed row",
					slog.Int("line", parseErr.Line),
					slog.String("error", parseErr.Err.Error()))
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		result.RawRows++
		if len(record) != len(header) {
			result.MalformedRows++
			continue
		}

		get := func(col string) string {
			if !wanted[col] {
				return ""
			}
			if idx, ok := columnMap[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		result.Papers = append(result.Papers, Paper{
			CordUID:     get(ColCordUID),
			Source:      get(ColSource),
			Title:       get(ColTitle),
			DOI:         get(ColDOI),
			PMCID:       get(ColPMCID),
			PubmedID:    get(ColPubmedID),
			License:     get(ColLicense),
			Abstract:    get(ColAbstract),
			PublishTime: get(ColPublishTime),
			Authors:     get(ColAuthors),
			Journal:     get(ColJournal),
			URL:         get(ColURL),
		})
	}

	l.logger.Info("dataset loaded",
		slog.Int("raw_rows", result.RawRows),
		slog.Int("loaded_rows", len(result.Papers)),
		slog.Int("malformed_rows", result.MalformedRows))

	return result, nil
}

// mapColumns maps known column names to their position in the header row,
// case-insensitive and whitespace-tolerant.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if normalized == "" {
			continue
		}
		if _, seen := columnMap[normalized]; !seen {
			columnMap[normalized] = i
		}
	}
	return columnMap
}

// decodeReader wraps r with a decoding transform for the configured encoding.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin-1", "latin1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	case "utf-16le", "utf16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be", "utf16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
