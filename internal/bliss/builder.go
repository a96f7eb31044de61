package bliss

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect selects how numeric tokens of a builder string are read.
type Dialect int

const (
	// DialectAuto reads the string as Blissary when it contains any B<n>
	// token and as BCI-AV otherwise.
	DialectAuto Dialect = iota
	// DialectBlissary reads B<n> tokens as Blissary IDs and maps them back
	// to BCI-AV-IDs through the blissary-ID map.
	DialectBlissary
	// DialectBciAv reads bare decimal tokens as BCI-AV-IDs.
	DialectBciAv
)

// String returns the dialect name accepted by ParseDialect.
func (d Dialect) String() string {
	switch d {
	case DialectAuto:
		return "auto"
	case DialectBlissary:
		return "blissary"
	case DialectBciAv:
		return "bciav"
	default:
		return "Dialect(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDialect maps a name ("", "auto", "blissary", "bciav", "bci-av") to
// a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DialectAuto, nil
	case "blissary":
		return DialectBlissary, nil
	case "bciav", "bci-av", "bci":
		return DialectBciAv, nil
	}
	return DialectAuto, fmt.Errorf("bliss: unknown dialect %q", s)
}

// Token grammar. A builder string is split on the separators first; each
// remaining token is tried against these patterns in order, falling back to
// an opaque word.
var (
	blissaryToken = regexp.MustCompile(`^B(\d+)$`)
	bciAvToken    = regexp.MustCompile(`^(\d+)$`)
	codeToken     = regexp.MustCompile(`^[A-Z]{1,3}:[+-]?\d+(?:\.\d+)?$`)
)

// leadingToken matches a numeric or coded token at the start of the input.
// These forms win over the opaque-word fallback, so "B206K:-2" is two
// tokens.
var leadingToken = regexp.MustCompile(`^(?:B\d+|[A-Z]{1,3}:[+-]?\d+(?:\.\d+)?|\d+)`)

// lex scans s left to right into separators, numeric or coded tokens, and
// the words between them. Blank words are dropped.
func lex(s string) []string {
	var out []string
	word := -1
	flush := func(end int) {
		if word < 0 {
			return
		}
		if tok := strings.TrimSpace(s[word:end]); tok != "" {
			out = append(out, tok)
		}
		word = -1
	}
	for i := 0; i < len(s); {
		if s[i] == '/' || s[i] == ';' {
			flush(i)
			out = append(out, s[i:i+1])
			i++
			continue
		}
		if loc := leadingToken.FindStringIndex(s[i:]); loc != nil {
			flush(i)
			out = append(out, s[i:i+loc[1]])
			i += loc[1]
			continue
		}
		if word < 0 {
			word = i
		}
		i++
	}
	flush(len(s))
	return out
}

func detectDialect(tokens []string) Dialect {
	for _, tok := range tokens {
		if blissaryToken.MatchString(tok) {
			return DialectBlissary
		}
	}
	return DialectBciAv
}

// parseBuilder decodes s in dialect d. resolve maps a Blissary ID to its
// BCI-AV-ID; it may be nil only when d is DialectBciAv.
func parseBuilder(s string, d Dialect, resolve func(int) (int, error)) (Composite, error) {
	tokens := lex(s)
	if d == DialectAuto {
		d = detectDialect(tokens)
	}

	out := make(Composite, 0, len(tokens))
	for _, tok := range tokens {
		if tok == SymbolJoin || tok == SequenceJoin {
			out = append(out, Sep(tok))
			continue
		}

		switch d {
		case DialectBlissary:
			if m := blissaryToken.FindStringSubmatch(tok); m != nil {
				n, err := atoi(tok, m[1])
				if err != nil {
					return nil, err
				}
				if resolve == nil {
					return nil, fmt.Errorf("bliss: %w: no blissary map to resolve %s", ErrMalformedBuilder, tok)
				}
				id, err := resolve(n)
				if err != nil {
					return nil, err
				}
				out = append(out, Sym(id))
				continue
			}
		case DialectBciAv:
			if m := bciAvToken.FindStringSubmatch(tok); m != nil {
				id, err := atoi(tok, m[1])
				if err != nil {
					return nil, err
				}
				out = append(out, Sym(id))
				continue
			}
		}
		out = append(out, Token(tok))
	}
	return out, nil
}

func atoi(tok, digits string) (int, error) {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bliss: %w: token %q out of range", ErrMalformedBuilder, tok)
	}
	return int(n), nil
}
