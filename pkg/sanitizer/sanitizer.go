package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reCollapseSpace = regexp.MustCompile(`\s+`)
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseWhitespace(s string) string {
	return reCollapseSpace.ReplaceAllString(s, " ")
}

// NormalizeEnum lowers and trims a raw enumerated value before it is
// matched against a vocabulary.
func NormalizeEnum(input string) string {
	p := Pipeline{
		trimAndLower,
		collapseWhitespace,
	}
	return p.Apply(input)
}

// NormalizeText trims a free-form descriptive field and collapses interior
// whitespace without changing case.
func NormalizeText(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		collapseWhitespace,
	}
	return p.Apply(input)
}
