package cardimage

import "testing"

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1F3A5F")
	if err != nil || c.R != 0x1F || c.G != 0x3A || c.B != 0x5F {
		t.Fatalf("parse failed: %+v err=%v", c, err)
	}
	c, err = ParseHexColor("fff")
	if err != nil || c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("short form failed: %+v err=%v", c, err)
	}
	if _, err := ParseHexColor("#12345"); err == nil {
		t.Fatalf("expected error for 5-digit color")
	}
}

func TestRenderFaceGradient(t *testing.T) {
	img, err := RenderFace("#1F3A5F")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != FaceWidth || img.Bounds().Dy() != FaceHeight {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	tl := img.NRGBAAt(0, 0)
	br := img.NRGBAAt(FaceWidth-1, FaceHeight-1)
	if tl == br {
		t.Fatalf("expected a gradient, corners are equal: %+v", tl)
	}
	if br.R > tl.R || br.G > tl.G || br.B > tl.B {
		t.Fatalf("bottom-right should be darker: %+v vs %+v", tl, br)
	}
}

func TestRenderFaceBadColor(t *testing.T) {
	if _, err := RenderFace("not-a-color"); err == nil {
		t.Fatalf("expected error")
	}
}
