package config

const (
	// MaxRequestBodyBytes bounds every JSON request body.
	MaxRequestBodyBytes = 1_000_000

	// MaxEventTitleLength is the maximum length for event titles.
	MaxEventTitleLength = 255

	// MaxEventSummaryLength is the maximum length for event summaries.
	MaxEventSummaryLength = 20_000

	// MaxTagNameLength is the maximum length for tag names.
	MaxTagNameLength = 100

	// MaxImportItems caps a single bulk import.
	MaxImportItems = 5000

	// MaxAbsYear bounds event years in both directions, which keeps year
	// arithmetic far from integer overflow.
	MaxAbsYear = 1_000_000_000

	// MaxStoreRetries is how many times a mutation is re-run after a
	// revision conflict before giving up.
	MaxStoreRetries = 5
)
