package hierarchy

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// markupPolicy strips every tag; script and style bodies are dropped whole
var markupPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds reruns for input like "<<b>script>", where
// removing one tag splices a new one together
const maxSanitizePasses = 4

// plainText reduces free text to what a client may render verbatim.
// Entities are decoded before the policy runs, and the result is only
// returned decoded once the policy has nothing left to strip, so
// "&lt;script&gt;" cannot turn back into a tag while "Tom's" stays readable.
func plainText(s *string) *string {
	s = trimOptional(s)
	if s == nil {
		return nil
	}

	text := html.UnescapeString(*s)
	for range maxSanitizePasses {
		cleaned := markupPolicy.Sanitize(text)
		decoded := html.UnescapeString(cleaned)
		if decoded == text {
			return trimOptional(&decoded)
		}
		text = decoded
	}

	// Still changing: keep the policy's escaped output
	escaped := markupPolicy.Sanitize(text)
	return trimOptional(&escaped)
}
