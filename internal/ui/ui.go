// Package ui renders codec and palette results for the terminal. Styling
// comes from lipgloss, which drops colors when the output is not a TTY.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/palette"
)

// Printer writes styled output to w.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Sequence renders c with indicators, modifiers, separators, and raw codes
// styled apart from plain symbols.
func Sequence(c bliss.Composite) string {
	var b strings.Builder
	for _, e := range c {
		b.WriteString(element(e))
	}
	return b.String()
}

func element(e bliss.Element) string {
	switch e.Kind {
	case bliss.KindSymbol:
		s := strconv.Itoa(e.ID)
		switch {
		case bliss.IsIndicator(e.ID):
			return styleIndicator.Render(s)
		case bliss.IsModifier(e.ID):
			return styleModifier.Render(s)
		}
		return styleSymbol.Render(s)
	case bliss.KindSeparator:
		return styleSeparator.Render(e.Text)
	default:
		return styleCode.Render(e.Text)
	}
}

// Symbol prints one symbol-table entry.
func (p *Printer) Symbol(id int, sym bliss.Symbol, blissary *bliss.BlissaryEntry) {
	fmt.Fprintln(p.w, styleHeading.Render(strconv.Itoa(id)))
	if sym.Description != "" {
		p.field("description", sym.Description)
	}
	if blissary != nil {
		p.field("blissary", "B"+strconv.Itoa(blissary.BlissaryID))
	}
	if sym.IsComposite() {
		p.field("composition", sym.Composition)
	} else {
		p.field("composition", "atomic")
	}
}

// Composition prints a root ID and its decomposed parts, followed by the
// indicator positions and the classifier position.
func (p *Printer) Composition(c bliss.Composition) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		styleHeading.Render(strconv.Itoa(c.BciAvID)),
		styleLabel.Render("="),
		Sequence(c.Parts))
	p.Analysis(c.Parts)
}

// Analysis prints where the indicators and the classifier sit in c.
func (p *Printer) Analysis(c bliss.Composite) {
	if ind := bliss.FindIndicators(c); len(ind) > 0 {
		p.field("indicators", joinInts(ind))
	}
	p.field("classifier", strconv.Itoa(bliss.FindClassifierFromLeft(c)))
}

// Builder prints an identifier next to its builder string.
func (p *Printer) Builder(id bliss.ID, builder string) {
	fmt.Fprintf(p.w, "%s %s %s\n", id.String(), styleLabel.Render("→"), styleSymbol.Render(builder))
}

// Parsed prints the sequence form of a builder string.
func (p *Printer) Parsed(builder string, c bliss.Composite) {
	fmt.Fprintf(p.w, "%s %s %s\n", builder, styleLabel.Render("→"), Sequence(c))
}

// PaletteList prints palette names, one per line.
func (p *Printer) PaletteList(names []string) {
	for _, n := range names {
		fmt.Fprintln(p.w, n)
	}
}

// Palette prints a palette's cells with their type, label, identifier, and
// grid placement.
func (p *Printer) Palette(pal *palette.Palette) {
	fmt.Fprintf(p.w, "%s %s\n", styleHeading.Render(pal.Name), styleLabel.Render(fmt.Sprintf("(%d cells)", len(pal.Cells))))
	for _, id := range pal.CellIDs() {
		cell := pal.Cells[id]
		detail := cell.Options.Label
		if cell.Options.BciAvID != nil {
			if bid, err := cell.Options.ID(); err == nil {
				detail += " " + styleSymbol.Render(bid.String())
			}
		}
		if cell.Options.BranchTo != "" {
			detail += " " + styleLabel.Render("→ "+cell.Options.BranchTo)
		}
		fmt.Fprintf(p.w, "  %-16s %-26s %s\n", id, styleLabel.Render(cell.Type), strings.TrimSpace(detail))
		fmt.Fprintf(p.w, "  %-16s %s\n", "", styleLabel.Render(cell.Options.GridStyle()))
	}
}

// Sentence prints a composed sentence as text and as a builder string.
func (p *Printer) Sentence(current, text, builder string) {
	p.field("palette", current)
	p.field("text", text)
	p.field("builder", styleSymbol.Render(builder))
}

// OK prints a success line.
func (p *Printer) OK(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", styleOK.Render("✓"), msg)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", styleError.Render("error:"), msg)
}

func (p *Printer) field(name, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", styleLabel.Render(name+":"), value)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
