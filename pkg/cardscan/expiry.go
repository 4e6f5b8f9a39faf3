package cardscan

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Label-prefixed forms are matched on the unmapped text because the labels
// themselves contain letters the confusable mapping would mangle; the
// captured date token is digit-corrected before parsing. The character class
// admits the common digit confusables for that reason.
var expiryLabelRE = regexp.MustCompile(`(?i)\b(?:VALID\s*THRU|EXPIRES|EXPIRY|EXP)\b\s*[:.]?\s*([0-9OolIS]{1,2}\s*[/\- ]\s*[0-9OolIS]{2,4})`)

// Bare forms run on the digit-corrected text, highest confidence first.
var expiryBareREs = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2})\s*/\s*(\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*/\s*(\d{2})\b`),
	regexp.MustCompile(`\b(\d{1,2})-(\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{2}) (\d{2})\b`),
}

var expiryTokenRE = regexp.MustCompile(`^(\d{1,2})\s*[/\- ]\s*(\d{2,4})$`)

// extractExpiryDate finds the card expiry and renders it as MM/YY. Dates in
// the past relative to now are discarded unless allowExpired is set.
func extractExpiryDate(lines []line, now time.Time, allowExpired bool) (string, bool) {
	for _, ln := range lines {
		for _, m := range expiryLabelRE.FindAllStringSubmatch(ln.text, -1) {
			tok := digitConfusables.Replace(m[1])
			if sub := expiryTokenRE.FindStringSubmatch(tok); sub != nil {
				if out, ok := validExpiry(sub[1], sub[2], now, allowExpired); ok {
					return out, true
				}
			}
		}
	}
	for _, re := range expiryBareREs {
		for _, ln := range lines {
			for _, m := range re.FindAllStringSubmatch(ln.digits, -1) {
				if out, ok := validExpiry(m[1], m[2], now, allowExpired); ok {
					return out, true
				}
			}
		}
	}
	return "", false
}

// validExpiry validates month/year strings and returns the canonical MM/YY
// form. Two-digit years expand into the current century; values below the
// current two-digit year roll into the next century.
func validExpiry(monthStr, yearStr string, now time.Time, allowExpired bool) (string, bool) {
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	switch len(yearStr) {
	case 2:
		century := now.Year() - now.Year()%100
		year += century
		if year%100 < now.Year()%100 {
			year += 100
		}
	case 4:
		// as-is
	default:
		return "", false
	}
	if !allowExpired && year*12+month < now.Year()*12+int(now.Month()) {
		return "", false
	}
	return fmt.Sprintf("%02d/%02d", month, year%100), true
}
