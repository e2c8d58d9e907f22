package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mosaicviz/mosaic/pkg/cache"
	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/formats"
	"github.com/mosaicviz/mosaic/pkg/pipeline"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/render"
)

// maxRequestBody bounds request bodies at 4 MiB.
const maxRequestBody = 4 << 20

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

// layoutRequest is the body for POST /api/v1/layout and /api/v1/render.
type layoutRequest struct {
	Portfolio *portfolio.Portfolio `json:"portfolio"`
	Grouping  string               `json:"grouping,omitempty"`
	Width     float64              `json:"width,omitempty"`
	Height    float64              `json:"height,omitempty"`
	Padding   float64              `json:"padding,omitempty"`
	MaxDepth  int                  `json:"max_depth,omitempty"`
}

type renderRequest struct {
	layoutRequest
	Format   string  `json:"format,omitempty"`
	Title    string  `json:"title,omitempty"`
	NoLabels bool    `json:"no_labels,omitempty"`
	Hover    bool    `json:"hover,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// layoutResponse is the body returned by POST /api/v1/layout.
type layoutResponse struct {
	Layout        render.Layout `json:"layout"`
	PortfolioHash string        `json:"portfolio_hash,omitempty"`
	Cached        bool          `json:"cached"`
}

func (r layoutRequest) options() pipeline.Options {
	return pipeline.Options{
		Portfolio: r.Portfolio,
		Grouping:  r.Grouping,
		Width:     r.Width,
		Height:    r.Height,
		Padding:   r.Padding,
		MaxDepth:  r.MaxDepth,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// handleLayout computes tile positions for a portfolio without rendering.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Portfolio == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "portfolio is required"))
		return
	}
	if err := req.Portfolio.Validate(); err != nil {
		writeError(w, err)
		return
	}

	opts := req.options()
	layout, hit, err := s.Runner.GenerateLayoutWithCacheInfo(r.Context(), req.Portfolio, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := layoutResponse{Layout: layout, Cached: hit}
	if data, err := req.Portfolio.Marshal(); err == nil {
		resp.PortfolioHash = cache.Hash(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRender runs the full pipeline and returns a single artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Portfolio == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "portfolio is required"))
		return
	}

	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	opts := req.options()
	opts.Formats = []string{format}
	opts.Title = req.Title
	opts.NoLabels = req.NoLabels
	opts.Hover = req.Hover
	opts.Scale = req.Scale
	opts.Detailed = req.Detailed

	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// handleNormalize runs a raw backend response through the fallback cascade
// for the requested view.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	if err := errors.ValidateView(view); err != nil {
		writeError(w, err)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	var payload any
	switch view {
	case "chart":
		payload, err = formats.NormalizeChart(raw)
	case "grid":
		payload, err = formats.NormalizeGrid(raw)
	case "doc":
		payload, err = formats.NormalizeDoc(raw)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
