package generate

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style selects the photographic treatment applied to every decade portrait.
type Style string

const (
	StyleClassic  Style = "classic"
	StylePolaroid Style = "polaroid"
	StylePainted  Style = "painted"
)

var decades = []string{"1950s", "1960s", "1970s", "1980s", "1990s", "2000s"}

// Decades returns the fixed batch order: one job per decade.
func Decades() []string {
	out := make([]string, len(decades))
	copy(out, decades)
	return out
}

// ParseStyle validates a style string from the API boundary.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleClassic, "":
		return StyleClassic, nil
	case StylePolaroid:
		return StylePolaroid, nil
	case StylePainted:
		return StylePainted, nil
	default:
		return "", fmt.Errorf("unsupported style %q", s)
	}
}

// PrimaryPrompt builds the full generation instruction for one decade. It is
// a pure function of style and decade; the domain is tiny (3 styles x 6
// decades) so nothing is cached. The decade token is embedded verbatim so the
// fallback path can recover it from the prompt text alone.
func PrimaryPrompt(style Style, decade string) string {
	titler := cases.Title(language.English)

	var treatment string
	switch style {
	case StylePolaroid:
		treatment = "an instant-film snapshot with soft flash lighting, slightly washed-out colors, and a white border"
	case StylePainted:
		treatment = "a hand-painted studio portrait with visible brushwork and warm gallery lighting"
	default:
		treatment = "an authentic period photograph with era-correct film grain and color rendition"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transform the person in this photo into someone living in the %s, rendered as %s.", decade, treatment)
	fmt.Fprintf(&b, " %s look throughout.", titler.String(string(style)))
	fmt.Fprintf(&b, " Keep the person's face, identity, and expression clearly recognizable.")
	fmt.Fprintf(&b, " Match the hairstyles, clothing, setting, and photographic technology of the %s.", decade)
	return b.String()
}

// FallbackPrompt is the less restrictive instruction used after a refusal:
// only the era survives, the identity-preservation and style constraints are
// dropped.
func FallbackPrompt(eraToken string) string {
	return fmt.Sprintf("Create a photograph of the person in this image as if they were living in the %s.", eraToken)
}
