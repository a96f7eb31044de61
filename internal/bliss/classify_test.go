package bliss

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndicatorAndModifierSets(t *testing.T) {
	t.Parallel()

	if !IsIndicator(indicatorID) {
		t.Errorf("IsIndicator(%d) = false", indicatorID)
	}
	if IsIndicator(nonIndicator) {
		t.Errorf("IsIndicator(%d) = true", nonIndicator)
	}
	if !IsModifier(modifierID) {
		t.Errorf("IsModifier(%d) = false", modifierID)
	}
	if IsModifier(nonModifierID) {
		t.Errorf("IsModifier(%d) = true", nonModifierID)
	}
	for id := range indicatorIDs {
		if IsModifier(id) {
			t.Errorf("%d is both an indicator and a modifier", id)
		}
	}
}

func TestFindIndicators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   ID
		want []int
	}{
		{"revive has one", revive(), []int{2}},
		{"words have none", abc(), nil},
		{"scalar has none", Scalar(singleID), nil},
		{"several in order", Composite{Sym(8993), Sep("/"), Sym(13134), Sep(";"), Sym(8999)}, []int{0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FindIndicators(tt.id)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindIndicators(%v) mismatch (-want +got):\n%s", tt.id, diff)
			}
		})
	}
}

func TestFindClassifierFromLeft(t *testing.T) {
	t.Parallel()

	withPrefix := func(prefix Composite, suffix ...Element) Composite {
		out := append(Composite{}, prefix...)
		out = append(out, revive()...)
		return append(out, suffix...)
	}

	tests := []struct {
		name string
		id   ID
		want int
	}{
		{"one modifier", withPrefix(Composite{Sym(modifierID), Sep("/")}), 2},
		{
			"two modifiers and a suffix",
			withPrefix(Composite{Sym(modifierID), Sep("/"), Sym(modifierID), Sep("/")}, Sep("/"), Sym(modifierID)),
			4,
		},
		{"no modifiers", revive(), 0},
		{"scalar", Scalar(singleID), 0},
		{"only modifiers", Composite{Sym(8511), Sep("/"), Sym(8512)}, 0},
		{"leading separator", Composite{Sep("/"), Sym(13134)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FindClassifierFromLeft(tt.id); got != tt.want {
				t.Errorf("FindClassifierFromLeft(%v) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

func TestStripIndicators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Composite
		want Composite
	}{
		{
			"indicator after host",
			revive(),
			Composite{Sym(13134), Sep("/"), Token("K:-2"), Sep("/"), Sym(15732), Sep("/"), Sym(15666)},
		},
		{"leading indicator", Composite{Sym(8993), Sep("/"), Sym(13134)}, Composite{Sym(13134)}},
		{"no indicators", abc(), abc()},
		{"only an indicator", Composite{Sym(8999)}, Composite{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, StripIndicators(tt.in)); diff != "" {
				t.Errorf("StripIndicators mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyIndicator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Composite
		want Composite
	}{
		{
			"replaces the existing indicator",
			revive(),
			Composite{Sym(13134), Sep(";"), Sym(indicatorID), Sep("/"), Token("K:-2"), Sep("/"), Sym(15732), Sep("/"), Sym(15666)},
		},
		{
			"lands after the modifier prefix",
			Composite{Sym(modifierID), Sep("/"), Sym(12335), Sep("/"), Sym(8499)},
			Composite{Sym(modifierID), Sep("/"), Sym(12335), Sep(";"), Sym(indicatorID), Sep("/"), Sym(8499)},
		},
		{"single symbol", Composite{Sym(12335)}, Composite{Sym(12335), Sep(";"), Sym(indicatorID)}},
		{
			"skips a leading separator",
			Composite{Sep(";"), Sym(13134)},
			Composite{Sep(";"), Sym(13134), Sep(";"), Sym(indicatorID)},
		},
		{
			"all modifiers take it at the end",
			Composite{Sym(modifierID), Sep("/"), Sym(8516)},
			Composite{Sym(modifierID), Sep("/"), Sym(8516), Sep(";"), Sym(indicatorID)},
		},
		{"word head", Composite{Token("Xa"), Sep("/"), Sym(12335)}, Composite{Token("Xa"), Sep(";"), Sym(indicatorID), Sep("/"), Sym(12335)}},
		{"empty", Composite{}, Composite{Sym(indicatorID)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ApplyIndicator(tt.in, indicatorID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ApplyIndicator mismatch (-want +got):\n%s", diff)
			}
			if n := len(FindIndicators(got)); n != 1 {
				t.Errorf("expected exactly one indicator, got %d in %v", n, got)
			}
		})
	}
}
