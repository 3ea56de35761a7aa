package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"retrobooth/internal/generate"
	"retrobooth/internal/infra"
	"retrobooth/internal/providers/genai"
)

var (
	// ErrSessionFatal is returned once quota exhaustion has halted the
	// session; no further attempts start until Reset.
	ErrSessionFatal = errors.New("session halted: request limit reached")
	// ErrJobPending rejects a regeneration while an attempt is already
	// outstanding for that job.
	ErrJobPending = errors.New("job already in progress")
	ErrUnknownJob = errors.New("unknown job")
)

// Generator produces one displayable image resource for a job, or a
// normalized failure.
type Generator interface {
	Generate(ctx context.Context, photo genai.ImageInput, prompt string) (string, error)
}

// Session owns the per-job state map for one booth run. Workers and
// regeneration goroutines only ever write the entry for the job they own;
// the mutex protects the map itself and snapshot reads. The fatal flag is
// set-once: the first quota-classified failure wins and later sets are
// harmless.
type Session struct {
	mu      sync.Mutex
	jobs    map[string]*jobRecord
	order   []string
	fatal   atomic.Bool
	gen     Generator
	workers int
	logger  infra.Logger
}

func New(gen Generator, workers int, logger infra.Logger) *Session {
	if workers <= 0 {
		workers = 2
	}
	return &Session{
		jobs:    make(map[string]*jobRecord),
		gen:     gen,
		workers: workers,
		logger:  logger,
	}
}

// StartBatch creates one pending job per decade and drives all of them to
// done or error with a fixed number of workers pulling from a FIFO queue.
// It returns only after every job has settled; per-job failures are recorded
// in the job map, never returned here.
func (s *Session) StartBatch(ctx context.Context, photo genai.ImageInput, style generate.Style) []JobView {
	labels := generate.Decades()

	s.mu.Lock()
	s.jobs = make(map[string]*jobRecord, len(labels))
	s.order = make([]string, 0, len(labels))
	s.fatal.Store(false)
	for _, label := range labels {
		s.jobs[label] = &jobRecord{
			job: Job{
				Label:  label,
				Photo:  photo,
				Prompt: generate.PrimaryPrompt(style, label),
			},
			state:    StatePending,
			feedback: FeedbackNone,
		}
		s.order = append(s.order, label)
	}
	s.mu.Unlock()

	queue := make(chan string, len(labels))
	for _, label := range labels {
		queue <- label
	}
	close(queue)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for label := range queue {
				s.runJob(gctx, label)
			}
			return nil
		})
	}
	// Workers never return errors; Wait is purely a join point.
	_ = g.Wait()

	return s.Snapshot()
}

// Regenerate reruns a single settled job. It refuses when the session is
// fatal or the job is already pending. The previous result is kept while the
// new attempt is in flight so collaborators can render the regenerating
// composite. Regenerations of different jobs may run concurrently; no pool
// bound applies here.
func (s *Session) Regenerate(ctx context.Context, label string) (JobView, error) {
	if s.fatal.Load() {
		return JobView{}, ErrSessionFatal
	}

	s.mu.Lock()
	rec, ok := s.jobs[label]
	if !ok {
		s.mu.Unlock()
		return JobView{}, ErrUnknownJob
	}
	if rec.state == StatePending {
		s.mu.Unlock()
		return JobView{}, ErrJobPending
	}
	rec.state = StatePending
	s.mu.Unlock()

	s.runJob(ctx, label)

	s.mu.Lock()
	defer s.mu.Unlock()
	return rec.view(), nil
}

// runJob executes one attempt for the job it owns and records the outcome.
func (s *Session) runJob(ctx context.Context, label string) {
	s.mu.Lock()
	rec, ok := s.jobs[label]
	if !ok {
		s.mu.Unlock()
		return
	}
	job := rec.job
	s.mu.Unlock()

	image, err := s.gen.Generate(ctx, job.Photo, job.Prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.hasResult = true
	if err != nil {
		rec.state = StateError
		rec.errMsg = err.Error()
		rec.image = ""
		quota := generate.IsQuotaMessage(rec.errMsg)
		rec.retryHint = !quota
		if quota && !s.fatal.Swap(true) {
			s.logger.Warn().
				Str("job", label).
				Msg("session: quota exhausted, halting further attempts")
		}
		s.logger.Info().
			Str("job", label).
			Str("error", rec.errMsg).
			Msg("session: job failed")
		return
	}
	rec.state = StateDone
	rec.image = image
	rec.errMsg = ""
	rec.retryHint = false
	s.logger.Info().
		Str("job", label).
		Msg("session: job completed")
}

// SetFeedback toggles the per-job annotation: applying the current mark
// clears it back to none.
func (s *Session) SetFeedback(label string, mark FeedbackMark) (JobView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[label]
	if !ok {
		return JobView{}, ErrUnknownJob
	}
	if rec.feedback == mark {
		rec.feedback = FeedbackNone
	} else {
		rec.feedback = mark
	}
	return rec.view(), nil
}

// Reset clears all job state and the fatal flag.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]*jobRecord)
	s.order = nil
	s.fatal.Store(false)
}

// Fatal reports whether quota exhaustion has halted the session.
func (s *Session) Fatal() bool {
	return s.fatal.Load()
}

// Snapshot returns the per-job views in batch order.
func (s *Session) Snapshot() []JobView {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]JobView, 0, len(s.order))
	for _, label := range s.order {
		if rec, ok := s.jobs[label]; ok {
			views = append(views, rec.view())
		}
	}
	return views
}
