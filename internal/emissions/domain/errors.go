package emissions

import "errors"

var (
	// ErrMissingColumn is returned when an upload lacks a required column.
	ErrMissingColumn = errors.New("emissions: missing required column")
	// ErrBadCell is returned when a cell value cannot be coerced to a number.
	ErrBadCell = errors.New("emissions: unparseable cell value")
	// ErrEmptyUpload is returned when an upload contains no data rows.
	ErrEmptyUpload = errors.New("emissions: empty upload")
	// ErrNilRecord is returned when persisting a nil record.
	ErrNilRecord = errors.New("emissions: nil record")
	// ErrNoRecords is returned when a reporting window contains no records.
	ErrNoRecords = errors.New("emissions: no data for period")
	// ErrNoReport is returned when a tenant has never submitted a report window.
	ErrNoReport = errors.New("emissions: no report submitted")
	// ErrConflict is returned when concurrent upserts race on the same
	// (tenant, company, month) key.
	ErrConflict = errors.New("emissions: conflicting concurrent write")
	// ErrInvalidWindow is returned when a report window is malformed.
	ErrInvalidWindow = errors.New("emissions: invalid report window")
)
