package generate

import (
	"strings"

	"retrobooth/internal/providers/genai"
)

// NoImageError reports that the model answered with text instead of the
// requested image. It is a refusal, not a transport failure, and downstream
// logic treats it differently: refusals get one fallback-prompt attempt while
// transport failures go through the retry/fatal path.
type NoImageError struct {
	Reply string
}

func (e *NoImageError) Error() string {
	return "model returned no image: " + e.Reply
}

// ExtractImage scans the response parts for an inline image payload and
// returns it as a ready-to-display data URL. When no image part exists the
// model's textual reply is preserved in the NoImageError for diagnostics.
func ExtractImage(resp *genai.Response) (string, error) {
	var reply strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.InlineData != nil && part.InlineData.Data != "" {
					mimeType := strings.TrimSpace(part.InlineData.MimeType)
					if mimeType == "" {
						mimeType = "image/png"
					}
					return "data:" + mimeType + ";base64," + part.InlineData.Data, nil
				}
				if part.Text != "" {
					if reply.Len() > 0 {
						reply.WriteString(" ")
					}
					reply.WriteString(part.Text)
				}
			}
		}
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		text = "model returned no content"
	}
	return "", &NoImageError{Reply: text}
}
