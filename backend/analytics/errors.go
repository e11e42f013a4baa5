package analytics

import "errors"

var (
	// ErrInvalidWindow - параметр days не является положительным числом.
	ErrInvalidWindow = errors.New("analytics: days must be a positive integer")

	// ErrNoData - запрошен экстремум по пустому набору групп.
	ErrNoData = errors.New("analytics: no data for the requested period")
)
