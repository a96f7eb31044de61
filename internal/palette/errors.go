package palette

import "errors"

// Sentinel errors for palette loading, validation, and navigation.
var (
	// ErrNotFound indicates a palette name is neither loaded nor listed in
	// the palette file map.
	ErrNotFound = errors.New("palette not found")
	// ErrUnknownCell indicates a cell ID does not exist in the palette.
	ErrUnknownCell = errors.New("unknown cell")
	// ErrUnknownCellType indicates a cell declares a type with no behavior.
	ErrUnknownCellType = errors.New("unknown cell type")
	// ErrMissingField indicates a required field (e.g. name, bciAvId) is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrUnsupportedFormat indicates a palette file extension other than
	// .json or .toml.
	ErrUnsupportedFormat = errors.New("unsupported palette format")
	// ErrEmptyEncoding indicates an edit was requested on an empty sentence.
	ErrEmptyEncoding = errors.New("encoding is empty")
	// ErrEmptyStack indicates there is no palette to go back to.
	ErrEmptyStack = errors.New("navigation stack is empty")
)

// ValidationError records a validation problem with source context.
type ValidationError struct {
	Palette string
	Cell    string
	Field   string
	Err     error
}

// Error returns a human-readable string including palette and cell context.
func (e *ValidationError) Error() string {
	msg := "palette " + e.Palette
	if e.Cell != "" {
		msg += ": cell " + e.Cell
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
