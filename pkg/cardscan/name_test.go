package cardscan

import "testing"

func TestNamePicksHolderOverBankLine(t *testing.T) {
	got, ok := extractCardholderName(normalize("CHASE BANK\nJOHN SMITH"))
	if !ok || got != "John Smith" {
		t.Fatalf("expected John Smith got %q ok=%v", got, ok)
	}
}

func TestNameExclusionVocabulary(t *testing.T) {
	for _, in := range []string{"PLATINUM REWARDS", "VISA SIGNATURE", "AUTHORIZED SIGNATURE", "WORLD ELITE MASTERCARD"} {
		if _, ok := extractCardholderName(normalize(in)); ok {
			t.Fatalf("product line %q must not qualify as a name", in)
		}
	}
}

func TestNameRejectsDigitsAndWordCounts(t *testing.T) {
	if _, ok := extractCardholderName(normalize("J0HN SMITH")); ok {
		t.Fatalf("digit-bearing line must be rejected")
	}
	if _, ok := extractCardholderName(normalize("MADONNA")); ok {
		t.Fatalf("single word must be rejected")
	}
	if _, ok := extractCardholderName(normalize("ONE TWO SIX SEVEN EIGHT")); ok {
		t.Fatalf("five words must be rejected")
	}
}

func TestNameSuffixes(t *testing.T) {
	got, ok := extractCardholderName(normalize("MARTIN LUTHER KING JR"))
	if !ok || got != "Martin Luther King Jr" {
		t.Fatalf("expected suffix to be tolerated got %q ok=%v", got, ok)
	}
	got, ok = extractCardholderName(normalize("HENRY FORD II"))
	if !ok || got != "Henry Ford Ii" {
		t.Fatalf("expected roman suffix tolerated got %q ok=%v", got, ok)
	}
}

func TestNameScoringPrefersTwoAllCapsWords(t *testing.T) {
	// Both survive filtering, but two all-caps words beat three mixed-case.
	got, ok := extractCardholderName(normalize("Ana Maria Lopez\nJOHN SMITH"))
	if !ok || got != "John Smith" {
		t.Fatalf("expected two-word all-caps winner got %q ok=%v", got, ok)
	}
}

func TestNameTieBreakEarliestLine(t *testing.T) {
	got, ok := extractCardholderName(normalize("JANE BROWN\nJOHN SMITH"))
	if !ok || got != "Jane Brown" {
		t.Fatalf("equal scores should keep the earliest line, got %q ok=%v", got, ok)
	}
}

func TestScoreNameWeights(t *testing.T) {
	two := scoreName("JOHN SMITH")
	three := scoreName("JOHN PAUL SMITH")
	if two <= three {
		t.Fatalf("two-word candidate should outscore three-word: %d vs %d", two, three)
	}
	caps := scoreName("JOHN SMITH")
	mixed := scoreName("John Smith")
	if caps <= mixed {
		t.Fatalf("all-caps should outscore mixed case: %d vs %d", caps, mixed)
	}
}
