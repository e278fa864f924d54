package device

import "errors"

var (
	// ErrGroupIndex is returned for a group index outside the layout.
	ErrGroupIndex = errors.New("group index out of range")
	// ErrGroupLength is returned when a color slice does not match the group size.
	ErrGroupLength = errors.New("color count does not match group size")
	// ErrInvalidLayout is returned by Layout.Validate.
	ErrInvalidLayout = errors.New("invalid layout")
)
