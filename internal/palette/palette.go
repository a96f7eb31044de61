// Package palette holds the palette definitions a user taps through to
// build a Bliss sentence: the palette files and their store, the navigation
// stack between palettes, and the sentence being composed.
package palette

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

// Cell types understood by Session.Activate.
const (
	CellBmwCode         = "ActionBmwCodeCell"
	CellBranchToPalette = "ActionBranchToPaletteCell"
	CellIndicator       = "ActionIndicatorCell"
	CellRemoveIndicator = "ActionRemoveIndicatorCell"
	CellGoBack          = "CommandGoBackCell"
	CellEncoding        = "ContentBmwEncoding"
	CellClearEncoding   = "CommandClearEncoding"
	CellDelLastEncoding = "CommandDelLastEncoding"
)

var cellTypes = map[string]bool{
	CellBmwCode:         true,
	CellBranchToPalette: true,
	CellIndicator:       true,
	CellRemoveIndicator: true,
	CellGoBack:          true,
	CellEncoding:        true,
	CellClearEncoding:   true,
	CellDelLastEncoding: true,
}

// Layout is a cell's position on the palette grid.
type Layout struct {
	ColumnStart int `json:"columnStart,omitempty" toml:"columnStart,omitempty"`
	ColumnSpan  int `json:"columnSpan,omitempty" toml:"columnSpan,omitempty"`
	RowStart    int `json:"rowStart,omitempty" toml:"rowStart,omitempty"`
	RowSpan     int `json:"rowSpan,omitempty" toml:"rowSpan,omitempty"`
}

// GridStyle renders the layout as inline CSS grid placement.
func (l Layout) GridStyle() string {
	return fmt.Sprintf("grid-column: %d / span %d;grid-row: %d / span %d;",
		l.ColumnStart, l.ColumnSpan, l.RowStart, l.RowSpan)
}

// Options are the per-cell settings. BciAvID holds the decoded JSON or TOML
// value as-is; use ID to interpret it.
type Options struct {
	Layout
	Label        string `json:"label,omitempty" toml:"label,omitempty"`
	BciAvID      any    `json:"bciAvId,omitempty" toml:"bciAvId,omitempty"`
	BranchTo     string `json:"branchTo,omitempty" toml:"branchTo,omitempty"`
	AriaControls string `json:"ariaControls,omitempty" toml:"ariaControls,omitempty"`
}

// ID interprets BciAvID as a scalar or composite identifier.
func (o Options) ID() (bliss.ID, error) {
	return bliss.FromValue(o.BciAvID)
}

// Cell is one button or display area of a palette.
type Cell struct {
	Type    string  `json:"type" toml:"type"`
	Options Options `json:"options" toml:"options"`
}

// Palette is a named grid of cells.
type Palette struct {
	Name  string          `json:"name" toml:"name"`
	Cells map[string]Cell `json:"cells" toml:"cells"`
}

// CellIDs returns the palette's cell IDs in sorted order.
func (p *Palette) CellIDs() []string {
	ids := make([]string, 0, len(p.Cells))
	for id := range p.Cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the palette has a name and that every cell has a known
// type and the fields that type needs.
func (p *Palette) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrMissingField}
	}
	for _, id := range p.CellIDs() {
		cell := p.Cells[id]
		if !cellTypes[cell.Type] {
			return &ValidationError{Palette: p.Name, Cell: id, Field: "type",
				Err: fmt.Errorf("%w: %q", ErrUnknownCellType, cell.Type)}
		}
		switch cell.Type {
		case CellBmwCode, CellIndicator:
			if cell.Options.BciAvID == nil {
				return &ValidationError{Palette: p.Name, Cell: id, Field: "bciAvId", Err: ErrMissingField}
			}
			if _, err := cell.Options.ID(); err != nil {
				return &ValidationError{Palette: p.Name, Cell: id, Field: "bciAvId", Err: err}
			}
		case CellBranchToPalette:
			if cell.Options.BranchTo == "" {
				return &ValidationError{Palette: p.Name, Cell: id, Field: "branchTo", Err: ErrMissingField}
			}
		}
	}
	return nil
}

// Decode parses palette data. format is a file extension: ".json" or
// ".toml".
func Decode(data []byte, format string) (*Palette, error) {
	var p Palette
	switch strings.ToLower(format) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("palette: parsing JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("palette: parsing TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("palette: %w: %q", ErrUnsupportedFormat, format)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads and validates a palette file.
func LoadFile(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("palette: reading %s: %w", path, err)
	}
	p, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// isPaletteFile reports whether name has a palette file extension.
func isPaletteFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".toml":
		return true
	}
	return false
}
