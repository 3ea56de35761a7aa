package generate

import (
	"context"
	"errors"
	"time"

	"retrobooth/internal/providers/genai"
)

// Backend issues one generation attempt against the remote model.
type Backend func(ctx context.Context, photo genai.ImageInput, prompt string) (*genai.Response, error)

const maxAttempts = 3

// sleep waits out a backoff delay. Tests override it to observe the requested
// durations without slowing down.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// callWithRetry invokes the backend, retrying internal server faults with
// exponential backoff (1s, 2s). Quota and unclassified errors fail
// immediately with their normalized message; only internal faults are worth
// another attempt.
func callWithRetry(ctx context.Context, backend Backend, photo genai.ImageInput, prompt string) (*genai.Response, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := backend(ctx, photo, prompt)
		if err == nil {
			return resp, nil
		}

		msg := Normalize(err)
		if IsInternalFault(msg) && attempt < maxAttempts {
			delay := time.Second << (attempt - 1)
			if serr := sleep(ctx, delay); serr != nil {
				return nil, serr
			}
			continue
		}
		return nil, errors.New(msg)
	}
	return nil, errors.New("image generation failed after retries")
}
