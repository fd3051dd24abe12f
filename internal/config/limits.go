package config

const (
	// MaxFormTitleLength is the maximum length for form titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) next to the JSONB body.
	MaxFormTitleLength = 255

	// MaxPageTitleLength is the maximum length for page titles.
	MaxPageTitleLength = 255

	// MaxQuestionLength is the maximum length for a block's question text.
	// Questions are rendered as headings, long prose belongs in the description.
	MaxQuestionLength = 1000

	// MaxFieldKeyLength is the maximum length for an explicit field key.
	// Keys become column names in response exports.
	MaxFieldKeyLength = 64

	// DefaultHistoryCapacity is the number of snapshots kept by the undo stack.
	DefaultHistoryCapacity = 50
)
