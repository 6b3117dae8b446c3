package tabgo

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/dataset/catalog"
	"github.com/hupe1980/tabgo/dataset/fetch"
	"github.com/hupe1980/tabgo/table"
)

var (
	// ErrAlreadyLoaded is returned when a store that holds data is loaded
	// again.
	ErrAlreadyLoaded = errors.New("already loaded")

	// ErrInvalidDataset is returned when a dataset cannot be decoded or is
	// malformed.
	ErrInvalidDataset = errors.New("invalid dataset")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, fetch.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, table.ErrAlreadyLoaded) {
		return fmt.Errorf("%w: %w", ErrAlreadyLoaded, err)
	}

	// Dataset normalization.
	var rw *dataset.RowWidthError
	if errors.As(err, &rw) {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if errors.Is(err, dataset.ErrInvalidMagic) ||
		errors.Is(err, dataset.ErrInvalidVersion) ||
		errors.Is(err, dataset.ErrCorrupted) ||
		errors.Is(err, dataset.ErrNoColumns) ||
		errors.Is(err, dataset.ErrEmptyInput) ||
		errors.Is(err, dataset.ErrUnknownFormat) ||
		errors.Is(err, dataset.ErrUnknownCompression) {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	return err
}
