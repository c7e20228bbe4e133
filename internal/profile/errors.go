package profile

import "errors"

// Failure kinds surfaced to callers. Anything else returned by the pipeline
// is an unexpected internal failure. Per-row and per-file problems are
// handled inside the pipeline and never reach these.
var (
	// ErrNoSourceData means no source files or rows were found for a profile.
	ErrNoSourceData = errors.New("no source data found")

	// ErrNoUsableColumns means source rows exist, but no file's header
	// carries an identity column or a name/artist pair. Files with usable
	// headers alongside bad ones do not trigger this; only total absence
	// of usable schema is fatal.
	ErrNoUsableColumns = errors.New("source data missing required columns")
)
