package cardscan

import "testing"

func TestLuhn(t *testing.T) {
	if !luhnValid("4111111111111111") {
		t.Fatalf("expected 4111... to pass checksum")
	}
	if luhnValid("4111111111111112") {
		t.Fatalf("expected 4111...2 to fail checksum")
	}
	if luhnValid("") {
		t.Fatalf("empty string must not validate")
	}
}

func TestExtractNumberGrouped(t *testing.T) {
	lines := normalize("VISA\n4111 1111 1111 1111\nGOOD THRU")
	got, ok := extractCardNumber(lines, false)
	if !ok || got != "4111 1111 1111 1111" {
		t.Fatalf("expected canonical 16-digit group got %q ok=%v", got, ok)
	}
}

func TestExtractNumberSeparators(t *testing.T) {
	for _, in := range []string{"4111-1111-1111-1111", "4111.1111.1111.1111", "4111111111111111"} {
		got, ok := extractCardNumber(normalize(in), false)
		if !ok || got != "4111 1111 1111 1111" {
			t.Fatalf("input %q: expected canonical form got %q ok=%v", in, got, ok)
		}
	}
}

func TestExtractNumberAmexGrouping(t *testing.T) {
	// 371449635398431 is a Luhn-valid 15-digit number; output uses 4-6-5.
	got, ok := extractCardNumber(normalize("3714 496353 98431"), false)
	if !ok || got != "3714 496353 98431" {
		t.Fatalf("expected 4-6-5 grouping got %q ok=%v", got, ok)
	}
}

func TestExtractNumberPrefersLuhnValid(t *testing.T) {
	// First line fails the checksum, second passes; the valid one wins even
	// though it appears later.
	text := "4111 1111 1111 1112\n5500 0000 0000 0004"
	got, ok := extractCardNumber(normalize(text), false)
	if !ok || got != "5500 0000 0000 0004" {
		t.Fatalf("expected Luhn-valid candidate got %q ok=%v", got, ok)
	}
}

func TestExtractNumberPrefersCommonLength(t *testing.T) {
	// Both Luhn-valid; the 16-digit one is preferred over the 13-digit one
	// even though the shorter appears first.
	text := "4222222222222\n4111 1111 1111 1111"
	got, ok := extractCardNumber(normalize(text), false)
	if !ok || got != "4111 1111 1111 1111" {
		t.Fatalf("expected 16-digit candidate got %q ok=%v", got, ok)
	}
}

func TestExtractNumberFallbackWithoutChecksum(t *testing.T) {
	lines := normalize("4111 1111 1111 1112")
	got, ok := extractCardNumber(lines, false)
	if !ok || got != "4111 1111 1111 1112" {
		t.Fatalf("expected best-guess fallback got %q ok=%v", got, ok)
	}
	if _, ok := extractCardNumber(lines, true); ok {
		t.Fatalf("strict mode must drop checksum failures")
	}
}

func TestExtractNumberLengthBounds(t *testing.T) {
	if _, ok := extractCardNumber(normalize("123456789012"), false); ok {
		t.Fatalf("12 digits must not qualify")
	}
	if _, ok := extractCardNumber(normalize("12345678901234567890"), false); ok {
		t.Fatalf("20 digits must not qualify")
	}
}

func TestExtractNumberWithTrailingDate(t *testing.T) {
	// Expiry token on the same line must not be absorbed into the number.
	got, ok := extractCardNumber(normalize("4111 1111 1111 1111 09/27"), false)
	if !ok || got != "4111 1111 1111 1111" {
		t.Fatalf("expected clean 16-digit extraction got %q ok=%v", got, ok)
	}
}

func TestFormatCardNumber(t *testing.T) {
	if got := formatCardNumber("4111111111111"); got != "4111 1111 1111 1" {
		t.Fatalf("13-digit grouping wrong: %q", got)
	}
	if got := formatCardNumber("4111111111111111111"); got != "4111 1111 1111 1111 111" {
		t.Fatalf("19-digit grouping wrong: %q", got)
	}
}
