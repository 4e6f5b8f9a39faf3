package cardscan

import (
	"reflect"
	"testing"
	"time"
)

const frontSample = "FIRST NATIONAL BANK\n4111 1111 1111 1111\nVALID THRU 09/27\nJOHN SMITH"

func scanOpts() Options {
	return Options{Now: func() time.Time { return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC) }}
}

func TestExtractFrontSide(t *testing.T) {
	got := ExtractWithOptions(frontSample, Category{Kind: KindCredit}, SideFront, scanOpts())
	want := Fields{
		FieldCardNumber:     "4111 1111 1111 1111",
		FieldExpiryDate:     "09/27",
		FieldCardholderName: "John Smith",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("front extraction mismatch\ngot  %v\nwant %v", got, want)
	}
}

func TestExtractBackSide(t *testing.T) {
	got := ExtractWithOptions("AUTHORIZED SIGNATURE\n321", Category{Kind: KindDebit}, SideBack, scanOpts())
	if len(got) != 1 || got[FieldCVV] != "321" {
		t.Fatalf("back extraction mismatch: %v", got)
	}
}

func TestSideGate(t *testing.T) {
	front := ExtractWithOptions(frontSample+"\n321", Category{Kind: KindCredit}, SideFront, scanOpts())
	if _, ok := front[FieldCVV]; ok {
		t.Fatalf("front pass must never populate cvv: %v", front)
	}
	back := ExtractWithOptions(frontSample+"\n321", Category{Kind: KindCredit}, SideBack, scanOpts())
	for _, k := range []string{FieldCardNumber, FieldExpiryDate, FieldCardholderName} {
		if _, ok := back[k]; ok {
			t.Fatalf("back pass must never populate %s: %v", k, back)
		}
	}
}

func TestCategoryGate(t *testing.T) {
	ineligible := []Category{
		{Kind: KindTransport},
		{Kind: KindLoyalty},
		{Kind: KindMembership},
		{Kind: KindGift},
		Custom("Gym", "#AA4411"),
	}
	for _, cat := range ineligible {
		for _, side := range []Side{SideFront, SideBack} {
			if got := ExtractWithOptions(frontSample+"\n321", cat, side, scanOpts()); len(got) != 0 {
				t.Fatalf("category %v side %v should yield empty result, got %v", cat, side, got)
			}
		}
	}
}

func TestEmptyAndGarbageInput(t *testing.T) {
	if got := Extract("", Category{Kind: KindCredit}, SideFront); len(got) != 0 {
		t.Fatalf("empty input should yield empty result: %v", got)
	}
	got := ExtractWithOptions("@@ ## $$\n..", Category{Kind: KindCredit}, SideFront, scanOpts())
	if len(got) != 0 {
		t.Fatalf("garbage input should yield empty result: %v", got)
	}
}

func TestExtractIsRepeatable(t *testing.T) {
	opts := scanOpts()
	a := ExtractWithOptions(frontSample, Category{Kind: KindCredit}, SideFront, opts)
	b := ExtractWithOptions(frontSample, Category{Kind: KindCredit}, SideFront, opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated calls differ: %v vs %v", a, b)
	}
}

func TestExtractNoEmptyValues(t *testing.T) {
	got := ExtractWithOptions("VALID THRU 09/27", Category{Kind: KindCredit}, SideFront, scanOpts())
	for k, v := range got {
		if v == "" {
			t.Fatalf("empty value stored under %q", k)
		}
	}
	if _, ok := got[FieldCardNumber]; ok {
		t.Fatalf("no number in input, none should be reported: %v", got)
	}
}

func TestNoiseCorrectionEndToEnd(t *testing.T) {
	got := ExtractWithOptions("41ll 1111 1111 1111", Category{Kind: KindCredit}, SideFront, scanOpts())
	if got[FieldCardNumber] != "4111 1111 1111 1111" {
		t.Fatalf("confusable correction failed: %v", got)
	}
}

func TestCategoryStrings(t *testing.T) {
	if Custom("Gym", "#AA4411").String() != "custom:Gym" {
		t.Fatalf("custom category string wrong")
	}
	if KindFromString("debit") != KindDebit || KindFromString("whatever") != KindCustom {
		t.Fatalf("kind round-trip wrong")
	}
	if (Category{Kind: KindCredit}).DefaultColor() == "" || Custom("Gym", "#AA4411").DefaultColor() != "#AA4411" {
		t.Fatalf("default colors wrong")
	}
}
