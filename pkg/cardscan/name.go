package cardscan

import (
	"strings"
	"unicode"
)

// nameExclusions are words that mark a line as bank/network/product text
// rather than a cardholder name.
var nameExclusions = map[string]struct{}{
	"BANK": {}, "VISA": {}, "MASTERCARD": {}, "MAESTRO": {}, "AMERICAN": {},
	"EXPRESS": {}, "DISCOVER": {}, "ELECTRON": {}, "CREDIT": {}, "DEBIT": {},
	"CARD": {}, "PLATINUM": {}, "GOLD": {}, "CLASSIC": {}, "SIGNATURE": {},
	"INFINITE": {}, "WORLD": {}, "BUSINESS": {}, "CORPORATE": {}, "REWARDS": {},
	"MEMBER": {}, "SINCE": {}, "VALID": {}, "THRU": {}, "EXPIRES": {},
	"EXPIRY": {}, "EXP": {}, "FROM": {}, "AUTHORIZED": {}, "ONLY": {},
	"INTERNATIONAL": {}, "SECURE": {}, "CONTACTLESS": {},
}

// nameSuffixes are short trailing tokens allowed to break the usual per-word
// length rule (generational suffixes and Roman numerals II-V).
var nameSuffixes = map[string]struct{}{
	"JR": {}, "SR": {}, "II": {}, "III": {}, "IV": {}, "V": {},
}

// nameWeights is the whole scoring policy for cardholder-name candidates in
// one place so it can be tuned without touching control flow.
var nameWeights = struct {
	TwoWords     int // first + last, the typical embossed layout
	ThreeWords   int
	FourWords    int
	LengthSweet  int // total length inside [8,20]
	AllCaps      int // embossed names are printed upper-case
	WordLengthOK int // per word inside [2,12]
}{
	TwoWords:     30,
	ThreeWords:   20,
	FourWords:    10,
	LengthSweet:  15,
	AllCaps:      20,
	WordLengthOK: 5,
}

const nameLetterRatioMin = 0.9

// extractCardholderName filters the lines down to plausible name candidates
// and picks the highest scoring one. Ties go to the earliest line.
func extractCardholderName(lines []line) (string, bool) {
	bestScore := -1
	var best string
	for _, ln := range lines {
		if !plausibleName(ln.text) {
			continue
		}
		if s := scoreName(ln.text); s > bestScore {
			bestScore = s
			best = ln.text
		}
	}
	if bestScore < 0 {
		return "", false
	}
	return titleCase(best), true
}

// plausibleName applies the structural filters: no digits, no excluded
// vocabulary, 2-4 words, and a letter+space character ratio of at least 90%.
func plausibleName(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			return false
		}
		if unicode.IsLetter(r) || r == ' ' {
			letters++
		}
	}
	if len(s) == 0 || float64(letters)/float64(len(s)) < nameLetterRatioMin {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := nameExclusions[upper]; ok {
			return false
		}
		if _, ok := nameSuffixes[upper]; ok {
			continue
		}
		if len(w) < 2 || len(w) > 12 {
			return false
		}
	}
	return true
}

// scoreName rates a surviving candidate against nameWeights.
func scoreName(s string) int {
	words := strings.Fields(s)
	score := 0
	switch len(words) {
	case 2:
		score += nameWeights.TwoWords
	case 3:
		score += nameWeights.ThreeWords
	case 4:
		score += nameWeights.FourWords
	}
	if n := len(s); n >= 8 && n <= 20 {
		score += nameWeights.LengthSweet
	}
	if s == strings.ToUpper(s) && s != strings.ToLower(s) {
		score += nameWeights.AllCaps
	}
	for _, w := range words {
		if len(w) >= 2 && len(w) <= 12 {
			score += nameWeights.WordLengthOK
		}
	}
	return score
}

// titleCase lowercases then re-capitalizes each word for display. The
// all-caps style scored above is an input signal, not the output format.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
