// Package dmierr defines the typed error kinds the core raises, ordered by
// the layer that produces them. Each is a sentinel usable with errors.Is;
// callers wrap it with file path and, where available, a structured-text
// location using the standard fmt.Errorf("...: %w", ...) chain.
package dmierr

import (
	"errors"
	"strconv"
)

var (
	// ErrRecipeParse means the recipe input is not well-formed structured text.
	ErrRecipeParse = errors.New("recipe parse error")

	// ErrRecipeCycle means the template chain contains a cycle.
	ErrRecipeCycle = errors.New("recipe template cycle")

	// ErrUnknownRecipeKey means a key survived merge resolution that is not
	// part of the schema for the resolved mode.
	ErrUnknownRecipeKey = errors.New("unknown recipe key")

	// ErrMissingRequiredKey means a required key for the resolved mode is absent.
	ErrMissingRequiredKey = errors.New("missing required recipe key")

	// ErrBadFieldValue means a field is present but fails validation
	// (non-positive dimension, cut_position outside icon_size, etc).
	ErrBadFieldValue = errors.New("invalid recipe field value")

	// ErrBlockIndexOutOfBounds means a positions or prefabs value indexes
	// past the source sheet's block count.
	ErrBlockIndexOutOfBounds = errors.New("block index out of bounds")

	// ErrNonDivisibleSheet means the source sheet height is not an exact
	// multiple of icon_size.h.
	ErrNonDivisibleSheet = errors.New("source sheet height not divisible by icon height")

	// ErrImageDecode bubbles up from the image decode collaborator.
	ErrImageDecode = errors.New("image decode error")

	// ErrImageEncode bubbles up from the image encode collaborator.
	ErrImageEncode = errors.New("image encode error")

	// ErrIO bubbles up from the filesystem collaborator.
	ErrIO = errors.New("io error")
)

// Location carries a structured-text diagnostic location, when available.
type Location struct {
	Path   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.Path
	}
	return l.Path + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}
