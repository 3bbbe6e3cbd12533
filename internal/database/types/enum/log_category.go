package enum

// LogCategory selects which guild log channel an entry is posted to.
//
//go:generate go tool enumer -type=LogCategory -trimprefix=LogCategory -transform=lower
type LogCategory int

const (
	// LogCategoryAction covers moderation actions and their corrections.
	LogCategoryAction LogCategory = iota
	// LogCategoryMessage covers message edits and deletions.
	LogCategoryMessage
	// LogCategoryVoice covers voice channel joins and moves.
	LogCategoryVoice
)
