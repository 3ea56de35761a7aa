package generate

import (
	"encoding/json"
	"strings"
)

// QuotaMessage is the fixed user-facing text shown when the Gemini quota is
// exhausted.
const QuotaMessage = "You've hit the request limit for now. Please wait a bit and try again."

type apiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Normalize maps an arbitrary backend error onto a user-facing message. The
// Gemini client keeps the API's JSON error envelope verbatim inside its error
// messages; when that envelope decodes and signals resource exhaustion the
// fixed quota message is returned. Otherwise the envelope's own message wins,
// falling back to the raw error text. Never returns an empty string.
func Normalize(err error) string {
	if err == nil {
		return ""
	}
	raw := err.Error()

	if env, ok := decodeEnvelope(raw); ok {
		if env.Error.Code == 429 || env.Error.Status == "RESOURCE_EXHAUSTED" {
			return QuotaMessage
		}
		if msg := strings.TrimSpace(env.Error.Message); msg != "" {
			return msg
		}
	}

	if strings.TrimSpace(raw) == "" {
		return "unknown error"
	}
	return raw
}

// decodeEnvelope tolerates the envelope appearing after a prefix such as
// "gemini status 429: {…}".
func decodeEnvelope(msg string) (apiErrorEnvelope, bool) {
	idx := strings.Index(msg, "{")
	if idx < 0 {
		return apiErrorEnvelope{}, false
	}
	var env apiErrorEnvelope
	if err := json.Unmarshal([]byte(msg[idx:]), &env); err != nil {
		return apiErrorEnvelope{}, false
	}
	if env.Error.Code == 0 && env.Error.Status == "" && env.Error.Message == "" {
		return apiErrorEnvelope{}, false
	}
	return env, true
}

// IsInternalFault reports whether a normalized message describes a server-side
// fault worth retrying. The match is a case-sensitive substring check against
// the backend's error wording; keep it that way, it is the compatibility
// contract with the API's error format.
func IsInternalFault(msg string) bool {
	return strings.Contains(msg, "500") || strings.Contains(msg, "INTERNAL")
}

// IsQuotaMessage reports whether a normalized message indicates quota
// exhaustion. The session layer uses this, independently of the structured
// 429 check in Normalize, to decide when to halt further attempts.
func IsQuotaMessage(msg string) bool {
	lowered := strings.ToLower(msg)
	for _, marker := range []string{"quota", "limit", "resource_exhausted", "429"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
