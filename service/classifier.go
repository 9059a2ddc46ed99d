package service

import (
	"context"
	"strings"

	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
)

// Classifier guesses a contract's category from a bounded prefix of its
// text. The label is advisory: the user confirms or overrides it before
// analysis proceeds.
type Classifier struct {
	gen       Generator
	prefixLen int
}

func NewClassifier(gen Generator, prefixLen int) *Classifier {
	if prefixLen <= 0 {
		prefixLen = 2000
	}
	return &Classifier{gen: gen, prefixLen: prefixLen}
}

const classifyPrompt = `Analyze the following contract text and determine the type of contract it is.
Provide only the contract type as a single short label (for example "Employment" or "Non-Disclosure Agreement"), without any additional explanation or text.

Contract text:
`

// DetectType returns a short category label for the contract. Only the
// first prefixLen characters are sent to the backend; a type label needs
// no more and the bound caps cost and latency.
func (c *Classifier) DetectType(ctx context.Context, text string) (string, error) {
	prefix := truncateChars(text, c.prefixLen)

	reply, err := c.gen.Generate(ctx, classifyPrompt+prefix)
	if err != nil {
		return "", apperr.Wrap(apperr.KindClassification, "classify contract", err)
	}

	return cleanLabel(reply), nil
}

// cleanLabel strips the decoration models like to add around a bare label.
func cleanLabel(reply string) string {
	label := strings.TrimSpace(reply)
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	label = strings.Trim(label, "\"'`*")
	return strings.TrimSpace(label)
}

// truncateChars bounds s to at most n characters without splitting a rune.
func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
