package bliss

// indicatorIDs are the BCI-AV-IDs of indicators: grammatical markers drawn
// above a host symbol (action, description, tense, plural, and so on).
var indicatorIDs = map[int]bool{
	8993: true, 8994: true, 8995: true, 8996: true, 8997: true, 8998: true,
	8999: true, 9000: true, 9001: true, 9002: true, 9003: true, 9004: true,
	9005: true, 9006: true, 9007: true, 9008: true, 9009: true, 9010: true,
	9011: true,
	24667: true, 24668: true, 24669: true, 24670: true, 24671: true,
	24672: true, 24673: true, 24674: true, 24675: true, 24676: true,
	24677: true, 24807: true,
	28043: true, 28044: true, 28045: true, 28046: true, 28047: true,
	28048: true,
}

// modifierIDs are the BCI-AV-IDs of modifiers that prefix a host symbol.
// These are the digit symbols 0 through 9, used for counts and ordinals.
var modifierIDs = map[int]bool{
	8510: true, 8511: true, 8512: true, 8513: true, 8514: true,
	8515: true, 8516: true, 8517: true, 8518: true, 8519: true,
}

// IsIndicator reports whether id designates an indicator symbol.
func IsIndicator(id int) bool { return indicatorIDs[id] }

// IsModifier reports whether id designates a modifier symbol.
func IsModifier(id int) bool { return modifierIDs[id] }

// FindIndicators returns the positions of indicator elements in id, in
// ascending order. A Scalar has none.
func FindIndicators(id ID) []int {
	c, ok := id.(Composite)
	if !ok {
		return nil
	}
	var positions []int
	for i, e := range c {
		if e.Kind == KindSymbol && IsIndicator(e.ID) {
			positions = append(positions, i)
		}
	}
	return positions
}

// FindClassifierFromLeft returns the position of the first element after a
// leading run of modifiers and their separators, which is where the head
// symbol starts. It returns 0 for a Scalar, for a sequence that does not
// start with a modifier, and for a sequence made only of modifiers.
func FindClassifierFromLeft(id ID) int {
	c, ok := id.(Composite)
	if !ok {
		return 0
	}
	i := 0
	for i < len(c) {
		e := c[i]
		switch {
		case e.Kind == KindSymbol && IsModifier(e.ID):
			i++
		case e.Kind == KindSeparator && i > 0:
			i++
		default:
			return i
		}
	}
	return 0
}

// StripIndicators returns a copy of c without indicator elements. The
// separator joining each indicator to its host goes with it.
func StripIndicators(c Composite) Composite {
	out := make(Composite, 0, len(c))
	skipSep := false
	for _, e := range c {
		if e.Kind == KindSymbol && IsIndicator(e.ID) {
			if n := len(out); n > 0 && out[n-1].Kind == KindSeparator {
				out = out[:n-1]
			} else if n == 0 {
				skipSep = true
			}
			continue
		}
		if skipSep && e.Kind == KindSeparator {
			skipSep = false
			continue
		}
		skipSep = false
		out = append(out, e)
	}
	return out
}

// ApplyIndicator replaces any indicators in c with indicator, attached with
// ";" to the head element: the first symbol or word at or after
// FindClassifierFromLeft that is not a modifier. A sequence with no such
// element gets the indicator at its end.
func ApplyIndicator(c Composite, indicator int) Composite {
	stripped := StripIndicators(c)
	if len(stripped) == 0 {
		return Composite{Sym(indicator)}
	}
	at := len(stripped)
	for i := FindClassifierFromLeft(stripped); i < len(stripped); i++ {
		e := stripped[i]
		if e.Kind == KindSeparator || (e.Kind == KindSymbol && IsModifier(e.ID)) {
			continue
		}
		at = i + 1
		break
	}
	out := make(Composite, 0, len(stripped)+2)
	out = append(out, stripped[:at]...)
	out = append(out, Sep(SequenceJoin), Sym(indicator))
	out = append(out, stripped[at:]...)
	return out
}
