// Package bliss translates between the three representations of a Bliss
// symbol identifier: a scalar BCI-AV-ID, a builder string in Blissary or
// BCI-AV notation, and the decomposed sequence of primitives, indicators,
// and modifiers. Every operation is a pure function of its arguments and
// the two read-only tables held by a Codec.
package bliss

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ElementKind tags the variant held by an Element.
type ElementKind uint8

const (
	KindSymbol    ElementKind = iota // integer BCI-AV-ID
	KindSeparator                    // "/" or ";"
	KindCode                         // raw code such as "K:-2"
	KindWord                         // opaque token such as "Xa"
)

// String returns a lowercase name for the kind.
func (k ElementKind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindSeparator:
		return "separator"
	case KindCode:
		return "code"
	case KindWord:
		return "word"
	default:
		return "ElementKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Builder-string separators. Each is kept as its own element when parsed.
const (
	SymbolJoin   = "/"
	SequenceJoin = ";"
)

// Element is one entry of a Composite. Symbol elements carry ID; every other
// kind carries its literal Text.
type Element struct {
	Kind ElementKind
	ID   int
	Text string
}

// Sym returns a symbol element for a BCI-AV-ID.
func Sym(id int) Element {
	return Element{Kind: KindSymbol, ID: id}
}

// Sep returns a separator element. It panics if s is not "/" or ";".
func Sep(s string) Element {
	if s != SymbolJoin && s != SequenceJoin {
		panic("bliss: invalid separator " + strconv.Quote(s))
	}
	return Element{Kind: KindSeparator, Text: s}
}

// Token returns a pass-through element for a non-numeric builder token,
// classified as KindCode when it has the shape of a raw code and KindWord
// otherwise.
func Token(s string) Element {
	if codeToken.MatchString(s) {
		return Element{Kind: KindCode, Text: s}
	}
	return Element{Kind: KindWord, Text: s}
}

// IsSymbol reports whether e is a symbol element.
func (e Element) IsSymbol() bool { return e.Kind == KindSymbol }

// IsSeparator reports whether e is a "/" or ";" separator.
func (e Element) IsSeparator() bool { return e.Kind == KindSeparator }

// String renders the element as it appears in a BCI-AV builder string.
func (e Element) String() string {
	if e.Kind == KindSymbol {
		return strconv.Itoa(e.ID)
	}
	return e.Text
}

// MarshalJSON encodes symbols as JSON numbers and all other elements as
// strings, the wire shape used by palette files.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.Kind == KindSymbol {
		return []byte(strconv.Itoa(e.ID)), nil
	}
	return json.Marshal(e.Text)
}

// UnmarshalJSON accepts a JSON number (symbol) or string (separator, code,
// or word).
func (e *Element) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		el, err := elementFromString(s)
		if err != nil {
			return err
		}
		*e = el
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	id, err := idFromNumber(n)
	if err != nil {
		return err
	}
	*e = Sym(id)
	return nil
}

func elementFromString(s string) (Element, error) {
	switch s {
	case SymbolJoin, SequenceJoin:
		return Sep(s), nil
	case "":
		return Element{}, fmt.Errorf("%w: empty element", ErrMalformedBuilder)
	}
	return Token(s), nil
}

// ID is a BCI-AV identifier in one of two forms: a Scalar naming an atomic
// or not-yet-decomposed symbol, or a Composite built from parts.
type ID interface {
	fmt.Stringer
	isID()
}

// Scalar is a single BCI-AV-ID.
type Scalar int

func (Scalar) isID() {}

// String returns the decimal form of the ID.
func (s Scalar) String() string { return strconv.Itoa(int(s)) }

// Composite is an ordered sequence of elements. Position is significant:
// it encodes the grammatical juxtaposition of the parts.
type Composite []Element

func (Composite) isID() {}

// String renders the sequence in BCI-AV builder notation, e.g. "12335/8499".
func (c Composite) String() string {
	var b strings.Builder
	for _, e := range c {
		b.WriteString(e.String())
	}
	return b.String()
}

// Symbols returns the BCI-AV-IDs of the symbol elements in order.
func (c Composite) Symbols() []int {
	var ids []int
	for _, e := range c {
		if e.Kind == KindSymbol {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Equal reports whether c and other hold the same elements in the same order.
func (c Composite) Equal(other Composite) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// FromValue converts a decoded JSON or TOML value into an ID. Numbers become
// a Scalar; arrays of numbers and strings become a Composite; strings are
// read as a scalar when purely numeric and as a BCI-AV dialect builder
// string otherwise.
func FromValue(v any) (ID, error) {
	switch x := v.(type) {
	case ID:
		return x, nil
	case int:
		return scalarFrom(int64(x))
	case int64:
		return scalarFrom(x)
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidID, x)
		}
		return scalarFrom(int64(x))
	case json.Number:
		id, err := idFromNumber(x)
		if err != nil {
			return nil, err
		}
		return Scalar(id), nil
	case string:
		return ParseID(x)
	case []any:
		out := make(Composite, 0, len(x))
		for _, item := range x {
			el, err := elementFromValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, el)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: missing", ErrInvalidID)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidID, v)
	}
}

// ParseID reads a command-line or query-string identifier: a bare number is
// a Scalar, anything else is parsed as a BCI-AV dialect builder string.
// Use (*Codec).ParseID to accept Blissary notation too.
func ParseID(s string) (ID, error) {
	return parseID(s, DialectBciAv, nil)
}

func parseID(s string, d Dialect, resolve func(int) (int, error)) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil || bciAvToken.MatchString(s) {
		if err != nil || n < 0 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		return Scalar(n), nil
	}
	c, err := parseBuilder(s, d, resolve)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func elementFromValue(v any) (Element, error) {
	switch x := v.(type) {
	case string:
		return elementFromString(x)
	case Element:
		return x, nil
	}
	id, err := FromValue(v)
	if err != nil {
		return Element{}, err
	}
	s, ok := id.(Scalar)
	if !ok {
		return Element{}, fmt.Errorf("%w: nested sequence", ErrInvalidID)
	}
	return Sym(int(s)), nil
}

func scalarFrom(n int64) (ID, error) {
	if n < 0 || n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, n)
	}
	return Scalar(n), nil
}

func idFromNumber(n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil || v < 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, n)
	}
	return int(v), nil
}
