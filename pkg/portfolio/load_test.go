package portfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

const sampleTOML = `
name = "Seed Fund"

[[positions]]
id = "acme"
name = "Acme Robotics"
value = 1200000.0
sector = "industrial"

[[positions]]
id = "globex"
value = 800000.0
sector = "software"
color = "#4E79A7"
`

func TestReadTOML(t *testing.T) {
	p, err := ReadTOML(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}

	if p.Name != "Seed Fund" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(p.Positions))
	}
	if p.Positions[0].Value != 1200000 {
		t.Errorf("value = %v", p.Positions[0].Value)
	}
	if p.Positions[1].Color != "#4E79A7" {
		t.Errorf("color = %q", p.Positions[1].Color)
	}
}

func TestReadTOMLInvalid(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("positions = 3"))
	if !errors.Is(err, errors.ErrCodeInvalidPortfolio) {
		t.Errorf("malformed TOML should map to INVALID_PORTFOLIO, got %v", err)
	}
}

func TestReadFileDispatch(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "fund.toml")
	if err := os.WriteFile(tomlPath, []byte(sampleTOML), 0644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "fund.json")
	if err := os.WriteFile(jsonPath, []byte(`{"name":"J","positions":[{"id":"a","value":1}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := ReadFile(tomlPath)
	if err != nil {
		t.Fatalf("ReadFile toml: %v", err)
	}
	if p.Name != "Seed Fund" {
		t.Errorf("toml portfolio name = %q", p.Name)
	}

	p, err = ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadFile json: %v", err)
	}
	if p.Name != "J" {
		t.Errorf("json portfolio name = %q", p.Name)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file should map to FILE_NOT_FOUND, got %v", err)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	p := samplePortfolio()

	if err := p.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Name != p.Name || len(got.Positions) != len(p.Positions) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
