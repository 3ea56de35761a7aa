package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"retrobooth/internal/providers/genai"
)

type stubResult struct {
	resp *genai.Response
	err  error
}

type stubBackend struct {
	calls   int
	prompts []string
	queue   []stubResult
}

func (s *stubBackend) generate(ctx context.Context, photo genai.ImageInput, prompt string) (*genai.Response, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if len(s.queue) == 0 {
		return imageResponse("image/png", "Zm9v"), nil
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next.resp, next.err
}

func captureSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	restore := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { sleep = restore })
	return &delays
}

func TestCallWithRetryRecoversFromInternalFaults(t *testing.T) {
	delays := captureSleep(t)
	backend := &stubBackend{queue: []stubResult{
		{err: errors.New("gemini status 500: INTERNAL")},
		{err: errors.New("gemini status 500: INTERNAL")},
		{resp: imageResponse("image/png", "Zm9v")},
	}}

	resp, err := callWithRetry(context.Background(), backend.generate, genai.ImageInput{}, "prompt")
	if err != nil {
		t.Fatalf("callWithRetry returned error: %v", err)
	}
	if resp == nil {
		t.Fatal("callWithRetry returned nil response")
	}
	if backend.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", backend.calls)
	}
	if len(*delays) != 2 || (*delays)[0] != time.Second || (*delays)[1] != 2*time.Second {
		t.Fatalf("unexpected backoff delays: %v", *delays)
	}
}

func TestCallWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	captureSleep(t)
	backend := &stubBackend{queue: []stubResult{
		{err: errors.New("gemini status 500: INTERNAL")},
		{err: errors.New("gemini status 500: INTERNAL")},
		{err: errors.New("gemini status 500: INTERNAL")},
	}}

	_, err := callWithRetry(context.Background(), backend.generate, genai.ImageInput{}, "prompt")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if backend.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", backend.calls)
	}
}

func TestCallWithRetryDoesNotRetryQuotaErrors(t *testing.T) {
	delays := captureSleep(t)
	backend := &stubBackend{queue: []stubResult{
		{err: errors.New(`gemini status 429: {"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`)},
	}}

	_, err := callWithRetry(context.Background(), backend.generate, genai.ImageInput{}, "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != QuotaMessage {
		t.Fatalf("expected normalized quota message, got %q", err.Error())
	}
	if backend.calls != 1 {
		t.Fatalf("expected single call, got %d", backend.calls)
	}
	if len(*delays) != 0 {
		t.Fatalf("expected no backoff, got %v", *delays)
	}
}

func TestCallWithRetryDoesNotRetryUnclassifiedErrors(t *testing.T) {
	captureSleep(t)
	backend := &stubBackend{queue: []stubResult{
		{err: errors.New("connection reset by peer")},
	}}

	_, err := callWithRetry(context.Background(), backend.generate, genai.ImageInput{}, "prompt")
	if err == nil || err.Error() != "connection reset by peer" {
		t.Fatalf("expected raw message, got %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("expected single call, got %d", backend.calls)
	}
}
