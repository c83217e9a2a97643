package application

import "strings"

// DefaultSummaryWords is the word window handed to the response generator.
const DefaultSummaryWords = 100

// Summarize truncates text to its first maxWords whitespace-delimited words,
// rejoined with single spaces. An ellipsis marker is appended if and only if
// the input was cut. Empty input yields empty output.
func Summarize(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}

	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}

	return strings.Join(words[:maxWords], " ") + "..."
}
