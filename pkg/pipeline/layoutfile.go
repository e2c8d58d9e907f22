package pipeline

import (
	"encoding/json"
	"os"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/render"
)

// WriteLayoutFile writes a computed layout as indented JSON.
// The file can be re-rendered later with [ReadLayoutFile] without
// recomputing tile positions.
func WriteLayoutFile(layout render.Layout, path string) error {
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to serialize layout")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write layout %s", path)
	}
	return nil
}

// ReadLayoutFile reads a layout previously written by [WriteLayoutFile].
func ReadLayoutFile(path string) (render.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return render.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return render.Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "read layout %s", path)
	}
	return unmarshalLayout(data)
}
