package palette

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

// Session replays cell activations without a screen: it owns a navigation
// stack and a sentence and applies each cell's action to them.
type Session struct {
	store *Store
	codec *bliss.Codec

	Nav      NavigationStack
	Encoding Encoding
}

// NewSession starts a session showing the named home palette.
func NewSession(store *Store, codec *bliss.Codec, home string) (*Session, error) {
	p, err := store.Named(home)
	if err != nil {
		return nil, err
	}
	s := &Session{store: store, codec: codec}
	s.Nav.SetCurrent(p)
	return s, nil
}

// Activate performs the action of a cell. ref is either a cell ID in the
// current palette or "palette:cell" for a cell in another palette, such as
// a command bar shown alongside the main one.
func (s *Session) Activate(ref string) (Cell, error) {
	p := s.Nav.Current()
	cellID := ref
	if name, id, ok := strings.Cut(ref, ":"); ok {
		var err error
		if p, err = s.store.Named(name); err != nil {
			return Cell{}, err
		}
		cellID = id
	}
	if p == nil {
		return Cell{}, fmt.Errorf("%w: no current palette", ErrNotFound)
	}

	cell, ok := p.Cells[cellID]
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q in palette %q", ErrUnknownCell, cellID, p.Name)
	}
	return cell, s.apply(cellID, cell)
}

func (s *Session) apply(cellID string, cell Cell) error {
	switch cell.Type {
	case CellBmwCode:
		id, err := cell.Options.ID()
		if err != nil {
			return err
		}
		s.Encoding.Append(Entry{ID: cellID, Label: cell.Options.Label, BciAvID: id})
	case CellBranchToPalette:
		next, err := s.store.Named(cell.Options.BranchTo)
		if err != nil {
			return err
		}
		s.Nav.BranchTo(next)
	case CellIndicator:
		id, err := cell.Options.ID()
		if err != nil {
			return err
		}
		scalar, ok := id.(bliss.Scalar)
		if !ok {
			return fmt.Errorf("palette: indicator cell %s: %w: expected a single id", cellID, bliss.ErrInvalidID)
		}
		return s.Encoding.ApplyIndicator(s.codec, int(scalar))
	case CellRemoveIndicator:
		return s.Encoding.RemoveIndicator(s.codec)
	case CellGoBack:
		_, err := s.Nav.GoBack()
		return err
	case CellClearEncoding:
		s.Encoding.Clear()
	case CellDelLastEncoding:
		if _, ok := s.Encoding.DeleteLast(); !ok {
			return ErrEmptyEncoding
		}
	case CellEncoding:
		// Display only.
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCellType, cell.Type)
	}
	return nil
}
