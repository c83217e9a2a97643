package application

import "context"

// ResponseGenerator turns a summarized transcript into a markdown reply.
// Implementations own the prompt template; the summary is embedded verbatim.
type ResponseGenerator interface {
	Generate(ctx context.Context, summary string) (string, error)
}
