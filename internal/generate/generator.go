package generate

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"retrobooth/internal/infra"
	"retrobooth/internal/providers/genai"
)

// eraTokenPattern matches the decade label embedded in every primary prompt,
// a four-digit year plus the decade suffix (e.g. "1970s").
var eraTokenPattern = regexp.MustCompile(`\b\d{4}s\b`)

// Generator turns the backend's three possible outcomes (image, textual
// refusal, error) into a two-outcome contract: a displayable image resource
// or a normalized failure. Refusals get one less restrictive fallback prompt;
// transport errors propagate as-is once retries are exhausted.
type Generator struct {
	backend Backend
	logger  infra.Logger
}

func NewGenerator(backend Backend, logger infra.Logger) *Generator {
	return &Generator{backend: backend, logger: logger}
}

// Generate runs one full generation attempt for a job: primary prompt with
// retries, then, if the model refused and the prompt carries an era token,
// a single fallback attempt referencing only the era.
func (g *Generator) Generate(ctx context.Context, photo genai.ImageInput, prompt string) (string, error) {
	image, err := g.attempt(ctx, photo, prompt)
	if err == nil {
		return image, nil
	}

	var refusal *NoImageError
	if !errors.As(err, &refusal) {
		return "", err
	}

	token := eraTokenPattern.FindString(prompt)
	if token == "" {
		// No era to fall back to; surface the refusal unchanged.
		return "", err
	}

	g.logger.Debug().
		Str("era", token).
		Str("reply", refusal.Reply).
		Msg("generate: model refused primary prompt, retrying with fallback")

	image, fallbackErr := g.attempt(ctx, photo, FallbackPrompt(token))
	if fallbackErr == nil {
		return image, nil
	}
	return "", fmt.Errorf("both primary and fallback prompts failed: %s", fallbackErr.Error())
}

func (g *Generator) attempt(ctx context.Context, photo genai.ImageInput, prompt string) (string, error) {
	resp, err := callWithRetry(ctx, g.backend, photo, prompt)
	if err != nil {
		return "", err
	}
	return ExtractImage(resp)
}
