package scrape

import "errors"

var (
	// ErrVoidRace marks a race declared void. It is skipped, not reported.
	ErrVoidRace = errors.New("scrape: void race")
	// ErrMalformedField is returned when a distance, margin or time cannot be read.
	ErrMalformedField = errors.New("scrape: malformed field")
	// ErrRunnerMismatch is returned when runner columns disagree with the field size.
	ErrRunnerMismatch = errors.New("scrape: runner columns do not match field size")
	// ErrDocumentNotReady means the page was served without race data and
	// should be fetched again.
	ErrDocumentNotReady = errors.New("scrape: document not ready")
)
