package formats

import (
	"testing"

	"github.com/mosaicviz/mosaic/pkg/errors"
)

func TestNormalizeChartTyped(t *testing.T) {
	raw := []byte(`{
		"type": "treemap",
		"title": "Allocation",
		"series": [
			{"name": "fund", "points": [
				{"label": "acme", "value": 40},
				{"label": "globex", "value": 60}
			]}
		]
	}`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if p.Type != "treemap" || p.Title != "Allocation" {
		t.Errorf("type/title = %q/%q", p.Type, p.Title)
	}
	if len(p.Series) != 1 || len(p.Series[0].Points) != 2 {
		t.Fatalf("unexpected series shape: %+v", p.Series)
	}
	if p.Series[0].Points[1] != (Point{Label: "globex", Value: 60}) {
		t.Errorf("points[1] = %+v", p.Series[0].Points[1])
	}
}

func TestNormalizeChartDataAlias(t *testing.T) {
	// "data" instead of "points", x/y instead of label/value.
	raw := []byte(`{"series": [{"data": [{"x": "a", "y": 1}, {"x": "b", "y": 2}]}]}`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if p.Series[0].Points[0].Label != "a" || p.Series[0].Points[0].Value != 1 {
		t.Errorf("points[0] = %+v", p.Series[0].Points[0])
	}
}

func TestNormalizeChartEnvelope(t *testing.T) {
	raw := []byte(`{"title": "Sectors", "result": {"data": {
		"labels": ["software", "biotech"],
		"values": [70, 30]
	}}}`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if p.Title != "Sectors" {
		t.Errorf("title from envelope = %q, want Sectors", p.Title)
	}
	if len(p.Series[0].Points) != 2 || p.Series[0].Points[0].Label != "software" {
		t.Errorf("points = %+v", p.Series[0].Points)
	}
}

func TestNormalizeChartArray(t *testing.T) {
	raw := []byte(`[{"name": "acme", "value": 10}, {"name": "globex", "value": 5}]`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if len(p.Series[0].Points) != 2 {
		t.Fatalf("points = %+v", p.Series[0].Points)
	}
}

func TestNormalizeChartPairs(t *testing.T) {
	raw := []byte(`[["acme", 10], ["globex", 5]]`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if p.Series[0].Points[1] != (Point{Label: "globex", Value: 5}) {
		t.Errorf("points[1] = %+v", p.Series[0].Points[1])
	}
}

func TestNormalizeChartFlatMap(t *testing.T) {
	raw := []byte(`{"beta": 2, "alpha": 1}`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	// Keys are sorted for determinism.
	if p.Series[0].Points[0].Label != "alpha" || p.Series[0].Points[1].Label != "beta" {
		t.Errorf("flat map points not sorted: %+v", p.Series[0].Points)
	}
}

func TestNormalizeChartFencedBlock(t *testing.T) {
	raw := []byte("Here is the allocation you asked for:\n\n```json\n" +
		`{"labels": ["a", "b"], "values": [1, 2]}` + "\n```\n\nLet me know if you need more.")

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if len(p.Series[0].Points) != 2 {
		t.Errorf("points = %+v", p.Series[0].Points)
	}
}

func TestNormalizeChartEmbeddedJSON(t *testing.T) {
	raw := []byte(`The breakdown is {"labels": ["x"], "values": [9]} as of today.`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if p.Series[0].Points[0] != (Point{Label: "x", Value: 9}) {
		t.Errorf("points[0] = %+v", p.Series[0].Points[0])
	}
}

func TestNormalizeChartMarkdownTable(t *testing.T) {
	raw := []byte(`Allocation by company:

| Company | Stake | Value |
|---------|-------|-------|
| Acme    | lead  | $1,200,000 |
| Globex  | minor | $800,000 |
`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	points := p.Series[0].Points
	if len(points) != 2 {
		t.Fatalf("points = %+v", points)
	}
	// "Stake" is non-numeric, so "Value" is the value column.
	if p.Series[0].Name != "Value" {
		t.Errorf("series name = %q, want Value", p.Series[0].Name)
	}
	if points[0] != (Point{Label: "Acme", Value: 1200000}) {
		t.Errorf("points[0] = %+v", points[0])
	}
}

func TestNormalizeChartStringValues(t *testing.T) {
	// Formatted financial strings coerce to floats.
	raw := []byte(`{"labels": ["a", "b"], "values": ["$1,500", "12%"]}`)

	p, err := NormalizeChart(raw)
	if err != nil {
		t.Fatalf("NormalizeChart: %v", err)
	}
	if p.Series[0].Points[0].Value != 1500 || p.Series[0].Points[1].Value != 12 {
		t.Errorf("points = %+v", p.Series[0].Points)
	}
}

func TestNormalizeChartFailure(t *testing.T) {
	for _, raw := range []string{
		"",
		"no structure here at all",
		`{"series": "not an array"}`,
		`{"labels": ["a"], "values": [1, 2]}`, // length mismatch
	} {
		_, err := NormalizeChart([]byte(raw))
		if !errors.Is(err, errors.ErrCodeInvalidPayload) {
			t.Errorf("NormalizeChart(%q) error = %v, want INVALID_PAYLOAD", raw, err)
		}
	}
}
