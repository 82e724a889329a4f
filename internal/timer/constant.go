package timer

const (
	// RenderTemplate formats a positive duration.
	RenderTemplate = "%d minutes and %d seconds"

	// TimeUpText is rendered once the configured duration has been used up.
	TimeUpText = "0 minutes and 0 seconds (time's up)"
)
