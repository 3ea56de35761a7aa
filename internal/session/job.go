package session

import (
	"retrobooth/internal/providers/genai"
)

// State enumerates job lifecycle states.
type State string

const (
	StatePending State = "pending"
	StateDone    State = "done"
	StateError   State = "error"
)

// FeedbackMark is a per-job user annotation, independent of the job state.
type FeedbackMark string

const (
	FeedbackNone    FeedbackMark = "none"
	FeedbackLike    FeedbackMark = "like"
	FeedbackDislike FeedbackMark = "dislike"
)

// Job is one request to transform the source photo into one decade-styled
// variant. Immutable once created at batch start.
type Job struct {
	Label  string
	Photo  genai.ImageInput
	Prompt string
}

// jobRecord is the mutable per-job entry in the session map. Each attempt
// has exactly one writer, the worker or regeneration goroutine that owns it.
type jobRecord struct {
	job       Job
	state     State
	image     string
	errMsg    string
	retryHint bool
	hasResult bool
	feedback  FeedbackMark
}

// JobView is the per-job output surfaced to the display collaborator.
// Regenerating is the composite sub-state: a new attempt is pending while the
// previous image or error is still available for display.
type JobView struct {
	Label         string       `json:"label"`
	Status        State        `json:"status"`
	ImageResource string       `json:"image_resource,omitempty"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	RetryHint     bool         `json:"retry_hint"`
	Regenerating  bool         `json:"regenerating"`
	Feedback      FeedbackMark `json:"feedback"`
}

func (r *jobRecord) view() JobView {
	return JobView{
		Label:         r.job.Label,
		Status:        r.state,
		ImageResource: r.image,
		ErrorMessage:  r.errMsg,
		RetryHint:     r.retryHint,
		Regenerating:  r.state == StatePending && r.hasResult,
		Feedback:      r.feedback,
	}
}
