package media

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of all argument validation errors
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflictingResponsiveOptions is returned by Build when both image sizes and picture sources are set
	ErrConflictingResponsiveOptions = fmt.Errorf("%w: image sizes must not be used together with picture sources", ErrInvalidArgument)

	// ErrInvalidCrop is returned when a crop string or rectangle cannot be used
	ErrInvalidCrop = fmt.Errorf("%w: invalid crop dimension", ErrInvalidArgument)

	// ErrInvalidRotation is returned for rotations other than 0, 90, 180 or 270 degrees
	ErrInvalidRotation = fmt.Errorf("%w: invalid rotation", ErrInvalidArgument)
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
