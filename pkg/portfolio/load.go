package portfolio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

// ReadTOML decodes a portfolio from a TOML manifest and validates it.
//
// The manifest shape:
//
//	name = "Growth Fund II"
//
//	[[positions]]
//	id = "acme"
//	name = "Acme Robotics"
//	value = 1200000
//	sector = "industrial"
func ReadTOML(r io.Reader) (*Portfolio, error) {
	var p Portfolio
	if _, err := toml.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPortfolio, err, "decode portfolio manifest")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReadFile loads a portfolio from path, dispatching on the file extension:
// .toml for TOML manifests, anything else is treated as JSON.
func ReadFile(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "portfolio file %s", path)
		}
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadTOML(f)
	}
	return ReadJSON(f)
}

// WriteFile writes the portfolio as JSON to path.
func (p *Portfolio) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.WriteJSON(f)
}
