package services

import "errors"

// Data service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrDatasetEmpty     = errors.New("dataset contains no usable rows")

	// Chart errors
	ErrChartNotFound = errors.New("chart not found")

	// Query errors
	ErrInvalidFilter = errors.New("invalid filter parameters")
)
