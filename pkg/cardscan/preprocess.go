package cardscan

import (
	"regexp"
	"strings"
)

// line is a cleaned input line. text keeps letters intact for name matching;
// digits has the confusable mapping applied for numeric extractors. idx is
// the original top-to-bottom position, used as a tie-break signal.
type line struct {
	text   string
	digits string
	idx    int
}

var disallowedRE = regexp.MustCompile(`[^\w /.\-*]`)

const minLineLen = 2

// digitConfusables maps characters card-font OCR commonly misreads into the
// digit they usually stand for. Lossy on purpose: only applied to the text
// variant handed to the digit-bearing extractors.
var digitConfusables = strings.NewReplacer(
	"O", "0",
	"o", "0",
	"l", "1",
	"I", "1",
	"S", "5",
	"s", "5",
	"B", "8",
)

// normalize splits raw recognizer output into cleaned lines, preserving the
// scan order. Degenerate lines are dropped.
func normalize(raw string) []line {
	var out []line
	for _, l := range strings.Split(raw, "\n") {
		l = disallowedRE.ReplaceAllString(l, " ")
		l = strings.Join(strings.Fields(l), " ")
		if len(l) < minLineLen {
			continue
		}
		out = append(out, line{text: l, digits: digitConfusables.Replace(l), idx: len(out)})
	}
	return out
}

// onlyDigits extracts decimal digits from a string.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
