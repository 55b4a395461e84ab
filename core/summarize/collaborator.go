// Package summarize defines the boundary to the external summarization
// collaborator: two text blocks in (prior report, bounded transcript), one
// text block out, persisted verbatim by the caller.
package summarize

import "context"

// Request carries the collaborator inputs. PriorReport may be empty on the
// first run; Transcript is already cleaned, compressed, and bounded.
type Request struct {
	PriorReport string
	Transcript  string
}

// A Collaborator turns a session transcript and the prior report into the
// next report. Implementations are out-of-process; the returned error's
// text is user-facing diagnostic output.
type Collaborator interface {
	Summarize(ctx context.Context, req Request) (string, error)
}
