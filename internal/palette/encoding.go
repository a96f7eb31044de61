package palette

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

// WordSpace separates words when a sentence is rendered as one Blissary
// builder string.
const WordSpace = "//"

// Entry is one word of the sentence being composed.
type Entry struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	BciAvID bliss.ID `json:"bciAvId"`
}

// Encoding is the ordered sentence a user has built so far. The zero value
// is an empty sentence. It is not safe for concurrent use.
type Encoding struct {
	entries []Entry
}

// Append adds e at the end of the sentence.
func (enc *Encoding) Append(e Entry) { enc.entries = append(enc.entries, e) }

// DeleteLast removes the last entry and returns it.
func (enc *Encoding) DeleteLast() (Entry, bool) {
	if len(enc.entries) == 0 {
		return Entry{}, false
	}
	last := enc.entries[len(enc.entries)-1]
	enc.entries = enc.entries[:len(enc.entries)-1]
	return last, true
}

// Clear empties the sentence.
func (enc *Encoding) Clear() { enc.entries = nil }

// Len returns the number of entries.
func (enc *Encoding) Len() int { return len(enc.entries) }

// Entries returns a copy of the sentence.
func (enc *Encoding) Entries() []Entry {
	out := make([]Entry, len(enc.entries))
	copy(out, enc.entries)
	return out
}

// Text joins the entry labels with spaces, as they would be spoken.
func (enc *Encoding) Text() string {
	labels := make([]string, 0, len(enc.entries))
	for _, e := range enc.entries {
		if e.Label != "" {
			labels = append(labels, e.Label)
		}
	}
	return strings.Join(labels, " ")
}

// ApplyIndicator replaces the indicator on the last entry with indicator.
// The entry is fully expanded first so an indicator already inside a
// composite symbol, or inside a composite element of a sequence, is
// replaced rather than doubled.
func (enc *Encoding) ApplyIndicator(codec *bliss.Codec, indicator int) error {
	return enc.editLast(codec, func(c bliss.Composite) bliss.Composite {
		return bliss.ApplyIndicator(c, indicator)
	})
}

// RemoveIndicator strips every indicator from the last entry.
func (enc *Encoding) RemoveIndicator(codec *bliss.Codec) error {
	return enc.editLast(codec, bliss.StripIndicators)
}

func (enc *Encoding) editLast(codec *bliss.Codec, edit func(bliss.Composite) bliss.Composite) error {
	if len(enc.entries) == 0 {
		return ErrEmptyEncoding
	}
	last := &enc.entries[len(enc.entries)-1]

	parts, ok, err := codec.Expand(last.BciAvID)
	if err != nil {
		return fmt.Errorf("palette: expanding %s: %w", last.BciAvID, err)
	}
	if !ok {
		// Unknown to the symbol table: edit the identifier as written.
		parts = asComposite(last.BciAvID)
	}
	last.BciAvID = edit(parts)
	return nil
}

func asComposite(id bliss.ID) bliss.Composite {
	switch v := id.(type) {
	case bliss.Composite:
		return v
	case bliss.Scalar:
		return bliss.Composite{bliss.Sym(int(v))}
	}
	return nil
}

// Builder renders the whole sentence as one Blissary builder string, words
// separated by WordSpace.
func (enc *Encoding) Builder(codec *bliss.Codec) (string, error) {
	words := make([]string, 0, len(enc.entries))
	for _, e := range enc.entries {
		s, err := codec.BuilderString(e.BciAvID)
		if err != nil {
			return "", fmt.Errorf("palette: entry %s: %w", e.ID, err)
		}
		words = append(words, s)
	}
	return strings.Join(words, WordSpace), nil
}
