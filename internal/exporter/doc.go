// Package exporter writes the analysis outputs to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// DatasetExporter: Writes the cleaned metadata table and the aggregate
// views (publications per year, top journals, source distribution,
// title word frequency) as CSV report files.
//
// WorkbookExporter: Writes the same aggregate views as a single Excel
// workbook with one sheet per view.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	ds := exporter.NewDatasetExporter(writer, logger)
//
//	err := ds.ExportCleaned(papers)
//	err = ds.ExportYearCounts(agg.CountByYear(papers))
package exporter
