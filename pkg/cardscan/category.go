package cardscan

// Kind identifies a predefined card classification. The zero value is
// KindCredit so an unset category still behaves like a scannable card.
type Kind int

const (
	KindCredit Kind = iota
	KindDebit
	KindTransport
	KindLoyalty
	KindMembership
	KindGift
	KindCustom
)

// Category is what kind of physical card was photographed. Predefined kinds
// carry no payload; KindCustom carries a user-chosen name and color.
// The caller supplies the category, it is never inferred from the text.
type Category struct {
	Kind        Kind
	CustomName  string
	CustomColor string
}

// Custom builds a user-defined category with its display name and hex color.
func Custom(name, color string) Category {
	return Category{Kind: KindCustom, CustomName: name, CustomColor: color}
}

// SupportsExtraction reports whether field extraction is attempted for this
// category. Only credit and debit cards carry embossed/printed fields worth
// scanning; everything else is treated as a pure-image card.
func (c Category) SupportsExtraction() bool {
	switch c.Kind {
	case KindCredit, KindDebit:
		return true
	case KindTransport, KindLoyalty, KindMembership, KindGift, KindCustom:
		return false
	}
	return false
}

// DefaultColor returns the hex color used when rendering a card face for a
// category. Custom categories use their own stored color.
func (c Category) DefaultColor() string {
	switch c.Kind {
	case KindCredit:
		return "#1F3A5F"
	case KindDebit:
		return "#14532D"
	case KindTransport:
		return "#7C2D12"
	case KindLoyalty:
		return "#5B21B6"
	case KindMembership:
		return "#374151"
	case KindGift:
		return "#9D174D"
	case KindCustom:
		if c.CustomColor != "" {
			return c.CustomColor
		}
		return "#374151"
	}
	return "#374151"
}

func (c Category) String() string {
	switch c.Kind {
	case KindCredit:
		return "credit"
	case KindDebit:
		return "debit"
	case KindTransport:
		return "transport"
	case KindLoyalty:
		return "loyalty"
	case KindMembership:
		return "membership"
	case KindGift:
		return "gift"
	case KindCustom:
		if c.CustomName != "" {
			return "custom:" + c.CustomName
		}
		return "custom"
	}
	return "unknown"
}

// KindFromString maps the stored string form back to a Kind. Unknown strings
// map to KindCustom so persisted user categories survive round-trips.
func KindFromString(s string) Kind {
	switch s {
	case "credit":
		return KindCredit
	case "debit":
		return KindDebit
	case "transport":
		return KindTransport
	case "loyalty":
		return KindLoyalty
	case "membership":
		return KindMembership
	case "gift":
		return KindGift
	}
	return KindCustom
}

// Side selects which face of the card an OCR pass covered.
type Side int

const (
	SideFront Side = iota
	SideBack
)

func (s Side) String() string {
	if s == SideBack {
		return "back"
	}
	return "front"
}

// SideFromString parses "front"/"back"; anything else defaults to front.
func SideFromString(v string) Side {
	if v == "back" {
		return SideBack
	}
	return SideFront
}
