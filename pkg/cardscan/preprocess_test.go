package cardscan

import "testing"

func TestNormalizeSplitsAndTrims(t *testing.T) {
	lines := normalize("  JOHN SMITH  \r\n\n4111 1111 1111 1111\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines got %d: %+v", len(lines), lines)
	}
	if lines[0].text != "JOHN SMITH" || lines[0].idx != 0 {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
	if lines[1].text != "4111 1111 1111 1111" || lines[1].idx != 1 {
		t.Fatalf("unexpected second line %+v", lines[1])
	}
}

func TestNormalizeConfusables(t *testing.T) {
	lines := normalize("41ll 1111 1111 1111")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line got %d", len(lines))
	}
	if lines[0].digits != "4111 1111 1111 1111" {
		t.Fatalf("confusable mapping failed: %q", lines[0].digits)
	}
	// The unmapped variant keeps the letters for name matching.
	if lines[0].text != "41ll 1111 1111 1111" {
		t.Fatalf("text variant should be unmapped: %q", lines[0].text)
	}
}

func TestNormalizeStripsNoise(t *testing.T) {
	lines := normalize("JOHN   SMITH ©\nx")
	if len(lines) != 1 {
		t.Fatalf("short and noise lines should be dropped, got %d", len(lines))
	}
	if lines[0].text != "JOHN SMITH" {
		t.Fatalf("whitespace collapse failed: %q", lines[0].text)
	}
}

func TestNormalizeKeepsPermittedPunctuation(t *testing.T) {
	lines := normalize("VALID THRU 09/27\n**** **** **** 1234")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines got %d", len(lines))
	}
	if lines[0].text != "VALID THRU 09/27" || lines[1].text != "**** **** **** 1234" {
		t.Fatalf("permitted punctuation mangled: %+v", lines)
	}
}

func TestOnlyDigits(t *testing.T) {
	if got := onlyDigits("4111-1111 11.11x1111"); got != "4111111111111111" {
		t.Fatalf("onlyDigits wrong: %q", got)
	}
}
