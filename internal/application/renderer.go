package application

// Renderer converts markdown to safe-for-display HTML. Rendering failures
// are swallowed by the implementation, which returns fallback markup instead
// of an error, so a broken response never blocks the response area.
type Renderer interface {
	Render(markdown string) string
}
