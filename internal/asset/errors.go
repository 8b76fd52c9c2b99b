package asset

import (
	"errors"
	"fmt"

	"github.com/ironsheep/media-handler/internal/media"
)

var (
	// ErrAssetNotFound is returned by a Store when no asset exists at a path
	ErrAssetNotFound = errors.New("asset not found")

	// ErrUnsupportedAssetType is returned when an operation is not defined for the asset's type
	ErrUnsupportedAssetType = fmt.Errorf("%w: unsupported asset type", media.ErrInvalidArgument)

	// ErrMissingDimension is returned when an operation needs the original's pixel dimensions
	ErrMissingDimension = fmt.Errorf("%w: original dimensions unknown", media.ErrInvalidArgument)
)
