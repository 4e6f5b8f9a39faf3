package cardscan

import "regexp"

var digitRunRE = regexp.MustCompile(`\d+`)

// A digit run this long on the back image is a leaked card-number fragment,
// never a security code.
const cvvRejectRunLen = 13

// extractCVV returns the first isolated 3-4 digit run. There is no checksum
// for this field, so selection is purely positional.
func extractCVV(lines []line) (string, bool) {
	for _, ln := range lines {
		for _, run := range digitRunRE.FindAllString(ln.digits, -1) {
			if len(run) >= cvvRejectRunLen {
				continue
			}
			if len(run) == 3 || len(run) == 4 {
				return run, true
			}
		}
	}
	return "", false
}
