package domain

// SessionStatus is the single source of truth for what the UI may currently
// do. Exactly one status holds at any time.
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusRecording  SessionStatus = "recording"
	StatusProcessing SessionStatus = "processing"
	StatusError      SessionStatus = "error"
)

// ErrorKind classifies a failed cycle. Every kind maps to one fixed
// user-visible message; underlying error detail stays in the logs.
type ErrorKind string

const (
	ErrorPermissionDenied    ErrorKind = "permission_denied"
	ErrorTranscriptionFailed ErrorKind = "transcription_failed"
	ErrorResponseFailed      ErrorKind = "response_failed"
	ErrorProcessing          ErrorKind = "processing"
)

func (k ErrorKind) Message() string {
	switch k {
	case ErrorPermissionDenied:
		return "Microphone access denied. Please check your permissions."
	case ErrorTranscriptionFailed:
		return "Failed to transcribe audio. Please try again."
	case ErrorResponseFailed:
		return "Failed to get AI response. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// Snapshot is the cycle-scoped presentation state. Transcript and response
// survive a failed cycle; only a new recording replaces them.
type Snapshot struct {
	Status           SessionStatus `json:"status"`
	Transcript       string        `json:"transcript"`
	ResponseMarkdown string        `json:"responseMarkdown"`
	ResponseHTML     string        `json:"responseHtml"`
	Error            string        `json:"error,omitempty"`
}
