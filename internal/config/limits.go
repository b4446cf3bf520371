package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxEmojiLength is the maximum rune length of an emoji; ZWJ sequences
	// and skin-tone modifiers take several runes.
	MaxEmojiLength = 16

	// MaxCategoryNameLength is the maximum length for category names.
	MaxCategoryNameLength = 255

	// MaxChartNameLength is the maximum length for chart names.
	MaxChartNameLength = 255

	// MaxTaskDescriptionLength is the maximum length for task descriptions.
	MaxTaskDescriptionLength = 1000

	// MaxChartItems caps folders + categories attached to one chart; each one
	// costs an aggregation query per dataset request.
	MaxChartItems = 50

	// DatasetQueryConcurrency bounds the per-folder aggregation queries in flight
	// for a single dataset request.
	DatasetQueryConcurrency = 4
)
