package cardscan

import (
	"regexp"
	"strings"
)

// candidate is a provisional field value found by pattern matching, before
// validation picks a winner.
type candidate struct {
	raw  string // matched substring as it appeared
	norm string // separator-free digit form
	idx  int    // source line position
}

// numberPatterns are tried in priority order: explicit grouping schemes
// first, then generic separated runs, then bare digit runs. Separators on
// embossed cards come through as space, hyphen or period.
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[ .\-]\d{4}[ .\-]\d{4}[ .\-]\d{4}\b`),   // 4-4-4-4
	regexp.MustCompile(`\b\d{4}[ .\-]\d{6}[ .\-]\d{5}\b`),              // 4-6-5 (15)
	regexp.MustCompile(`\b\d{4}[ .\-]\d{4}[ .\-]\d{4}[ .\-]\d{1,3}\b`), // short last group (13-15)
	regexp.MustCompile(`\b(?:\d[ .\-]?){12,18}\d\b`),                   // any separated run, 13-19
	regexp.MustCompile(`\b\d{13,19}\b`),                                // bare run
}

const (
	minPANLen = 13
	maxPANLen = 19
	// most cards in the wild are 16 digits; used as the length preference
	// when several candidates survive validation.
	preferredPANLen = 16
)

// luhnValid reports whether digits passes the Luhn checksum: double every
// second digit from the right, fold results >9 by subtracting 9, and the
// total must be divisible by 10.
func luhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// extractCardNumber scans the lines with the prioritized pattern list and
// selects the best candidate. With strict=false a structurally plausible
// candidate that fails the checksum is still returned: OCR noise makes a
// perfect Luhn pass unreliable, and a best guess the user can correct beats
// an empty field.
func extractCardNumber(lines []line, strict bool) (string, bool) {
	var cands []candidate
	seen := map[string]struct{}{}
	for _, re := range numberPatterns {
		for _, ln := range lines {
			for _, m := range re.FindAllString(ln.digits, -1) {
				norm := onlyDigits(m)
				if len(norm) < minPANLen || len(norm) > maxPANLen {
					continue
				}
				if _, ok := seen[norm]; ok {
					continue
				}
				seen[norm] = struct{}{}
				cands = append(cands, candidate{raw: m, norm: norm, idx: ln.idx})
			}
		}
	}
	if len(cands) == 0 {
		return "", false
	}
	if best, ok := bestNumber(cands, true); ok {
		return formatCardNumber(best.norm), true
	}
	if strict {
		return "", false
	}
	best, _ := bestNumber(cands, false)
	return formatCardNumber(best.norm), true
}

// bestNumber picks the preferred candidate, optionally restricted to
// Luhn-valid ones. Preference: common length first, then earliest line,
// then discovery order.
func bestNumber(cands []candidate, luhnOnly bool) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range cands {
		if luhnOnly && !luhnValid(c.norm) {
			continue
		}
		if !found {
			best = c
			found = true
			continue
		}
		bp := len(best.norm) == preferredPANLen
		cp := len(c.norm) == preferredPANLen
		switch {
		case cp && !bp:
			best = c
		case cp == bp && c.idx < best.idx:
			best = c
		}
	}
	return best, found
}

// formatCardNumber renders a digit string in the canonical display grouping:
// 4-6-5 for 15-digit (Amex) numbers, runs of 4 for everything else.
func formatCardNumber(digits string) string {
	if len(digits) == 15 {
		return digits[:4] + " " + digits[4:10] + " " + digits[10:]
	}
	var groups []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, " ")
}
