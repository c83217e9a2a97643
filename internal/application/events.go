package application

import "voice-companion/internal/domain"

// EventSink receives presentation updates as a cycle progresses.
type EventSink interface {
	StatusChanged(status domain.SessionStatus)
	TranscriptReady(text string)
	ResponseReady(markdown, html string)
	SessionError(message string)
}

type NoopSink struct{}

func (n *NoopSink) StatusChanged(_ domain.SessionStatus) {}
func (n *NoopSink) TranscriptReady(_ string)             {}
func (n *NoopSink) ResponseReady(_, _ string)            {}
func (n *NoopSink) SessionError(_ string)                {}
