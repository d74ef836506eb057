// Package normalize turns raw model output into a structured
// domain.ConsultationResult. The model is asked for a JSON answer but is free
// to reply with prose, a fenced code block, or malformed JSON, so this package
// implements a best-effort parse with an all-or-nothing fallback: either the
// reply parses as the expected object, or the whole raw text becomes the
// result message with a fixed informational disclaimer.
//
// No repair is attempted beyond the parse boundary. A reply that parses but
// omits fields is returned as-is with those fields zero; consumers tolerate
// that.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tbourn/go-legal-backend/internal/domain"
)

// FallbackDisclaimer is the single disclaimer attached when the model reply
// cannot be parsed as structured data.
const FallbackDisclaimer = "This response is for informational purposes only and does not constitute legal advice."

// fencedJSONRE extracts the body of a ```json fenced block.
var fencedJSONRE = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Normalize converts raw model text into a ConsultationResult. It never fails.
//
// If the text carries a ```json fence, the fenced content is parsed; otherwise
// the text is parsed verbatim. On any parse failure the original raw text is
// wrapped in the fallback shape.
func Normalize(raw string) domain.ConsultationResult {
	content := raw
	if strings.Contains(raw, "```json") {
		if m := fencedJSONRE.FindStringSubmatch(raw); m != nil {
			content = strings.TrimSpace(m[1])
		}
	}

	if res, ok := tryParse(content); ok {
		return res
	}
	return fallback(raw)
}

// tryParse attempts to decode content as the expected result object. It
// reports false on any decode error, including well-formed JSON of the wrong
// shape (arrays, bare strings, mistyped fields).
func tryParse(content string) (domain.ConsultationResult, bool) {
	var res domain.ConsultationResult
	if err := json.Unmarshal([]byte(content), &res); err != nil {
		return domain.ConsultationResult{}, false
	}
	return res, true
}

// fallback wraps unparseable text in the safe default shape.
func fallback(raw string) domain.ConsultationResult {
	return domain.ConsultationResult{
		Message:         raw,
		LegalReferences: []string{},
		Recommendations: []string{},
		Disclaimers:     []string{FallbackDisclaimer},
		FollowUp:        []string{},
	}
}
