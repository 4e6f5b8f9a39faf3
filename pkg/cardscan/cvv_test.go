package cardscan

import "testing"

func TestCVVFirstIsolatedRun(t *testing.T) {
	got, ok := extractCVV(normalize("AUTHORIZED SIGNATURE\n321"))
	if !ok || got != "321" {
		t.Fatalf("expected 321 got %q ok=%v", got, ok)
	}
}

func TestCVVFourDigits(t *testing.T) {
	got, ok := extractCVV(normalize("CID 1234"))
	if !ok || got != "1234" {
		t.Fatalf("expected 1234 got %q ok=%v", got, ok)
	}
}

func TestCVVIgnoresCardNumberFragment(t *testing.T) {
	// A 15-digit fragment leaked onto the back image must not be mined for
	// a 3-4 digit substring.
	got, ok := extractCVV(normalize("123456789012345\n321"))
	if !ok || got != "321" {
		t.Fatalf("expected 321 got %q ok=%v", got, ok)
	}
}

func TestCVVSkipsOtherRunLengths(t *testing.T) {
	if _, ok := extractCVV(normalize("12\n12345\n123456")); ok {
		t.Fatalf("runs of 2, 5 and 6 digits must not qualify")
	}
}
