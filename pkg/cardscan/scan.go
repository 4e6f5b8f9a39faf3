// Package cardscan turns noisy multi-line OCR text from a photographed
// payment card into validated, normalized fields. It is a pure function of
// its inputs: no state is kept between calls and the same (text, category,
// side) triple always yields the same result, so it is safe to call from any
// number of goroutines.
package cardscan

import "time"

// Well-known keys of the extraction result. A key is present only when the
// field was both detected and validated; absence means "not found".
const (
	FieldCardNumber     = "cardNumber"
	FieldExpiryDate     = "expiryDate"
	FieldCardholderName = "cardholderName"
	FieldCVV            = "cvv"
)

// Fields maps the well-known field keys to normalized display strings.
// Values are never empty.
type Fields map[string]string

// Options tune the validation policy.
type Options struct {
	// StrictLuhn drops card-number candidates that fail the checksum
	// instead of falling back to the best structurally plausible one.
	StrictLuhn bool
	// AllowExpired keeps expiry dates that lie in the past. Off by
	// default: a freshly scanned card should not already be expired.
	AllowExpired bool
	// Now supplies the clock for expiry validation. Defaults to time.Now.
	Now func() time.Time
}

// Extract runs the extraction pipeline with default options.
func Extract(rawText string, category Category, side Side) Fields {
	return ExtractWithOptions(rawText, category, side, Options{})
}

// ExtractWithOptions runs the extraction pipeline. Categories that do not
// support extraction short-circuit to an empty result; front passes populate
// number, expiry and name, back passes only the security code. Malformed or
// empty input never yields an error, only a smaller result.
func ExtractWithOptions(rawText string, category Category, side Side, opts Options) Fields {
	fields := Fields{}
	if !category.SupportsExtraction() {
		return fields
	}
	lines := normalize(rawText)
	if len(lines) == 0 {
		return fields
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	switch side {
	case SideBack:
		if v, ok := extractCVV(lines); ok {
			fields[FieldCVV] = v
		}
	default:
		if v, ok := extractCardNumber(lines, opts.StrictLuhn); ok {
			fields[FieldCardNumber] = v
		}
		if v, ok := extractExpiryDate(lines, now(), opts.AllowExpired); ok {
			fields[FieldExpiryDate] = v
		}
		if v, ok := extractCardholderName(lines); ok {
			fields[FieldCardholderName] = v
		}
	}
	return fields
}
