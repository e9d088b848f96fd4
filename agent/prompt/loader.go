package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/responder.txt
	responderRaw string
)

// Set holds loaded prompt content.
type Set struct {
	Classifier string
	Responder  string
}

// LoadSet returns the embedded prompts with surrounding whitespace trimmed.
// Safe to call concurrently; the embed is compile-time.
func LoadSet() Set {
	return Set{
		Classifier: strings.TrimSpace(classifierRaw),
		Responder:  strings.TrimSpace(responderRaw),
	}
}
