package llm

import "context"

// Request carries everything the completion service needs for one resume.
type Request struct {
	Owner         string // resume owner's display name, derived from the file stem
	ResumeText    string
	ParsingFormat string // serialized target JSON shape, embedded in the prompt
}

// Result is the first choice of a completion response.
type Result struct {
	Content      string
	FinishReason string
}

// Completer is the interface the pipeline depends on. One synchronous request
// per resume; no retry, no streaming.
type Completer interface {
	Complete(ctx context.Context, req Request) (Result, error)
}
