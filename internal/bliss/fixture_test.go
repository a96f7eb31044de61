package bliss

import "testing"

// Fixture values. The ids named in the comments come from the BMW palette
// data; the blissary ids below are a small, self-consistent subset.
const (
	singleID      = 23409 // CONJ.
	invalidID     = 1
	indicatorID   = 8999  // future action indicator
	nonIndicator  = 12334 // action
	modifierID    = 8515  // "5" (5 items or 5th)
	nonModifierID = 28043 // continuous indicator
)

func testIDMap() BlissaryMap {
	return BlissaryMap{
		{BciAvID: 8499, BlissaryID: 12},
		{BciAvID: 8515, BlissaryID: 25},
		{BciAvID: 8993, BlissaryID: 81},
		{BciAvID: 8999, BlissaryID: 87},
		{BciAvID: 12335, BlissaryID: 106},
		{BciAvID: 13134, BlissaryID: 206},
		{BciAvID: 14947, BlissaryID: 310},
		{BciAvID: 15161, BlissaryID: 402},
		{BciAvID: 15162, BlissaryID: 403},
		{BciAvID: 15474, BlissaryID: 441},
		{BciAvID: 15666, BlissaryID: 457},
		{BciAvID: 15732, BlissaryID: 473},
		{BciAvID: 15733, BlissaryID: 474},
		{BciAvID: 23409, BlissaryID: 823},
	}
}

func testSymbols() SymbolTable {
	atomic := []string{"8499", "8515", "8993", "8999", "12335", "13134", "14947", "15162", "15474", "15666", "15732", "23409"}
	t := make(SymbolTable, len(atomic)+2)
	for _, id := range atomic {
		t[id] = Symbol{ID: id}
	}
	// "to know" is stored in Blissary notation, "not" in BCI-AV notation.
	t["15161"] = Symbol{ID: "15161", Description: "to know", Composition: "B403;B81"}
	t["15733"] = Symbol{ID: "15733", Description: "not", Composition: "15474/14947"}
	return t
}

func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	return NewCodec(testIDMap(), testSymbols(), opts...)
}

// revive is "B206;B81/K:-2/B473/B457" in sequence form.
func revive() Composite {
	return Composite{
		Sym(13134), Sep(";"), Sym(8993), Sep("/"), Token("K:-2"),
		Sep("/"), Sym(15732), Sep("/"), Sym(15666),
	}
}

func abc() Composite {
	return Composite{Token("Xa"), Sep("/"), Token("Xb"), Sep("/"), Token("Xc")}
}
