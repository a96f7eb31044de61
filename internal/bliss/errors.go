package bliss

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for identifier lookup, parsing, and decomposition.
var (
	// ErrUnknownID indicates an identifier has no entry in the table consulted.
	ErrUnknownID = errors.New("unknown id")
	// ErrInvalidID indicates a value cannot be interpreted as a BCI-AV-ID.
	ErrInvalidID = errors.New("invalid BCI-AV-ID")
	// ErrMalformedBuilder indicates a builder string token could not be decoded.
	ErrMalformedBuilder = errors.New("malformed builder string")
	// ErrCompositionCycle indicates a symbol's composition refers back to itself.
	ErrCompositionCycle = errors.New("composition cycle")
	// ErrDepthExceeded indicates decomposition nested deeper than the codec allows.
	ErrDepthExceeded = errors.New("composition depth exceeded")
)

// LookupError reports an identifier that must be rendered but has no mapping.
type LookupError struct {
	Kind string // "BCI-AV-ID" or "Blissary ID"
	ID   int
}

// Error returns the message "bliss: unknown <kind> <id>".
func (e *LookupError) Error() string {
	return "bliss: unknown " + e.Kind + " " + strconv.Itoa(e.ID)
}

// Unwrap returns ErrUnknownID for use with errors.Is.
func (e *LookupError) Unwrap() error {
	return ErrUnknownID
}

// CompositionCycleError reports the chain of BCI-AV-IDs that led back to an
// identifier already being expanded.
type CompositionCycleError struct {
	Path []int
}

// Error renders the cycle as "a -> b -> a".
func (e *CompositionCycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("bliss: %v: %s", ErrCompositionCycle, strings.Join(parts, " -> "))
}

// Unwrap returns ErrCompositionCycle for use with errors.Is.
func (e *CompositionCycleError) Unwrap() error {
	return ErrCompositionCycle
}
