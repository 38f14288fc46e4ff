package types

const (
	// MaxDefaultLines is the page size used when a caller does not set max_lines.
	MaxDefaultLines = 200
	// MaxAllowedLines caps max_lines.
	MaxAllowedLines = 100000
	// MaxHistoryLimit caps the page size of the history tool.
	MaxHistoryLimit = 100
)
