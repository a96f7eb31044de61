package bliss

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds how many composite symbols may nest inside one
// another before Decompose gives up.
const DefaultMaxDepth = 32

// BlissaryEntry pairs a BCI-AV-ID with the ID used by the Blissary SVG
// builder.
type BlissaryEntry struct {
	BciAvID    int `json:"bciAvId"`
	BlissaryID int `json:"blissaryId"`
}

// BlissaryMap is the ordered blissary-ID mapping table.
type BlissaryMap []BlissaryEntry

// Symbol is the metadata record for one BCI-AV-ID. Composition holds the
// builder string of a composite symbol and is empty for atomic symbols.
type Symbol struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Composition string `json:"composition,omitempty"`
}

// IsComposite reports whether the symbol is defined in terms of others.
func (s Symbol) IsComposite() bool {
	return strings.TrimSpace(s.Composition) != ""
}

// SymbolTable maps the decimal form of a BCI-AV-ID to its metadata.
type SymbolTable map[string]Symbol

// Composition is a root BCI-AV-ID together with its full decomposition.
// Parts is nil when the root is unknown.
type Composition struct {
	BciAvID int       `json:"bciAvId"`
	Parts   Composite `json:"bciComposition"`
}

// Codec resolves, decomposes, and recomposes identifiers against a
// blissary-ID map and a symbol table. Both tables are treated as read-only;
// a Codec is safe for concurrent use.
type Codec struct {
	byBci      map[int]BlissaryEntry
	byBlissary map[int]int
	symbols    SymbolTable
	maxDepth   int
}

// Option configures a Codec.
type Option func(*Codec)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(c *Codec) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// NewCodec indexes idMap in both directions and returns a Codec over it and
// symbols. When an ID appears more than once the first entry wins.
func NewCodec(idMap BlissaryMap, symbols SymbolTable, opts ...Option) *Codec {
	c := &Codec{
		byBci:      make(map[int]BlissaryEntry, len(idMap)),
		byBlissary: make(map[int]int, len(idMap)),
		symbols:    symbols,
		maxDepth:   DefaultMaxDepth,
	}
	for _, e := range idMap {
		if _, ok := c.byBci[e.BciAvID]; !ok {
			c.byBci[e.BciAvID] = e
		}
		if _, ok := c.byBlissary[e.BlissaryID]; !ok {
			c.byBlissary[e.BlissaryID] = e.BciAvID
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxDepth returns the nesting limit applied by Decompose.
func (c *Codec) MaxDepth() int { return c.maxDepth }

// BlissaryID looks up the blissary-ID map entry for a BCI-AV-ID. A missing
// entry is reported through ok and is not an error.
func (c *Codec) BlissaryID(bciAvID int) (BlissaryEntry, bool) {
	e, ok := c.byBci[bciAvID]
	return e, ok
}

// BciAvID is the reverse of BlissaryID.
func (c *Codec) BciAvID(blissaryID int) (int, bool) {
	id, ok := c.byBlissary[blissaryID]
	return id, ok
}

// BuilderString renders id in Blissary notation: scalars become "B<n>" and
// composites concatenate their elements, keeping separators and tokens as
// they are. An ID with no Blissary mapping fails with *LookupError.
func (c *Codec) BuilderString(id ID) (string, error) {
	switch v := id.(type) {
	case Scalar:
		return c.blissaryToken(int(v))
	case Composite:
		var b strings.Builder
		for _, e := range v {
			if e.Kind != KindSymbol {
				b.WriteString(e.Text)
				continue
			}
			tok, err := c.blissaryToken(e.ID)
			if err != nil {
				return "", err
			}
			b.WriteString(tok)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("bliss: %w: %T", ErrInvalidID, id)
	}
}

func (c *Codec) blissaryToken(bciAvID int) (string, error) {
	e, ok := c.BlissaryID(bciAvID)
	if !ok {
		return "", &LookupError{Kind: "BCI-AV-ID", ID: bciAvID}
	}
	return "B" + strconv.Itoa(e.BlissaryID), nil
}

// ParseBuilder decodes a builder string into its sequence form. In the
// Blissary dialect every B<n> token must be present in the blissary-ID map;
// an unmapped one fails with *LookupError.
func (c *Codec) ParseBuilder(s string, d Dialect) (Composite, error) {
	return parseBuilder(s, d, c.resolveBlissary)
}

// ParseID reads a command-line or query-string identifier. A bare number is
// a Scalar; anything else is a builder string whose dialect is detected
// from its tokens, so Blissary tokens are resolved through the map and an
// unmapped one fails with *LookupError.
func (c *Codec) ParseID(s string) (ID, error) {
	return parseID(s, DialectAuto, c.resolveBlissary)
}

func (c *Codec) resolveBlissary(blissaryID int) (int, error) {
	id, ok := c.BciAvID(blissaryID)
	if !ok {
		return 0, &LookupError{Kind: "Blissary ID", ID: blissaryID}
	}
	return id, nil
}

// FindSymbol returns the metadata for a scalar ID. Composite IDs are not
// lookup keys and, like unknown scalars, report ok == false.
func (c *Codec) FindSymbol(id ID) (Symbol, bool) {
	s, isScalar := id.(Scalar)
	if !isScalar || s < 0 {
		return Symbol{}, false
	}
	sym, ok := c.symbols[strconv.Itoa(int(s))]
	return sym, ok
}

// Decompose expands id into primitive terms.
//
// A Scalar with no metadata reports ok == false. A Scalar whose metadata has
// no composition decomposes to itself. A composite symbol's builder string
// is parsed and every symbol element in it is decomposed again and spliced
// in place. A Composite argument counts as already decomposed and comes
// back unchanged; use Expand to unfold its elements too.
//
// A composition that refers back to a symbol being expanded fails with
// *CompositionCycleError.
func (c *Codec) Decompose(id ID) (Composite, bool, error) {
	switch v := id.(type) {
	case Scalar:
		return c.decompose(int(v), nil)
	case Composite:
		return slices.Clone(v), true, nil
	default:
		return nil, false, nil
	}
}

// Expand is Decompose, except that every symbol element of a Composite
// argument is decomposed and spliced in place as well. Elements that are
// unknown or atomic are left untouched, so an already primitive sequence
// comes back unchanged.
func (c *Codec) Expand(id ID) (Composite, bool, error) {
	v, ok := id.(Composite)
	if !ok {
		return c.Decompose(id)
	}
	out, err := c.expand(v, nil)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// decompose expands one BCI-AV-ID. path holds the composite symbols
// currently being expanded, outermost first.
func (c *Codec) decompose(id int, path []int) (Composite, bool, error) {
	sym, ok := c.FindSymbol(Scalar(id))
	if !ok {
		return nil, false, nil
	}
	if !sym.IsComposite() {
		return Composite{Sym(id)}, true, nil
	}

	for _, seen := range path {
		if seen == id {
			cycle := append(path[:len(path):len(path)], id)
			return nil, false, &CompositionCycleError{Path: cycle}
		}
	}
	if len(path) >= c.maxDepth {
		return nil, false, fmt.Errorf("bliss: %w: more than %d levels below %d", ErrDepthExceeded, c.maxDepth, path[0])
	}

	parts, err := c.ParseBuilder(sym.Composition, DialectAuto)
	if err != nil {
		return nil, false, fmt.Errorf("bliss: composition of %d: %w", id, err)
	}
	// Some tables list an atomic symbol as composed of itself.
	if len(parts) == 1 && parts[0] == Sym(id) {
		return parts, true, nil
	}

	out, err := c.expand(parts, append(path[:len(path):len(path)], id))
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *Codec) expand(parts Composite, path []int) (Composite, error) {
	out := make(Composite, 0, len(parts))
	for _, e := range parts {
		if e.Kind != KindSymbol {
			out = append(out, e)
			continue
		}
		sub, ok, err := c.decompose(e.ID, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			out = append(out, e)
			continue
		}
		out = append(out, sub...)
	}
	return out, nil
}

// MakeComposition pairs id with its decomposition. Parts is nil when id is
// unknown.
func (c *Codec) MakeComposition(id int) (Composition, error) {
	parts, _, err := c.decompose(id, nil)
	if err != nil {
		return Composition{}, err
	}
	return Composition{BciAvID: id, Parts: parts}, nil
}

// Composition is MakeComposition restricted to a scalar root. A Composite
// argument, or an unknown scalar, reports ok == false.
func (c *Codec) Composition(id ID) (Composition, bool, error) {
	s, isScalar := id.(Scalar)
	if !isScalar {
		return Composition{}, false, nil
	}
	comp, err := c.MakeComposition(int(s))
	if err != nil {
		return Composition{}, false, err
	}
	if comp.Parts == nil {
		return Composition{}, false, nil
	}
	return comp, true, nil
}

// SymbolIDs returns every numeric key of the symbol table in ascending
// order. Keys that are not decimal integers are skipped.
func (c *Codec) SymbolIDs() []int {
	ids := make([]int, 0, len(c.symbols))
	for key := range c.symbols {
		if id, err := strconv.Atoi(key); err == nil && id >= 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// MappingCount returns the number of distinct BCI-AV-IDs in the blissary map.
func (c *Codec) MappingCount() int { return len(c.byBci) }
