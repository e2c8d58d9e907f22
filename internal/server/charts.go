package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/pipeline"
	"github.com/mosaicviz/mosaic/pkg/portfolio"
	"github.com/mosaicviz/mosaic/pkg/store"
)

// chartRequest is the body for chart create and update.
type chartRequest struct {
	Name      string               `json:"name"`
	Portfolio *portfolio.Portfolio `json:"portfolio"`
	Grouping  string               `json:"grouping,omitempty"`
	Width     float64              `json:"width,omitempty"`
	Height    float64              `json:"height,omitempty"`
}

func (s *Server) handleChartCreate(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Portfolio == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "portfolio is required"))
		return
	}

	chart := store.NewChart(req.Name, *req.Portfolio)
	chart.Grouping = req.Grouping
	chart.Width = req.Width
	chart.Height = req.Height
	if err := chart.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if err := s.Store.Put(r.Context(), chart); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chart)
}

func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	charts, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"charts": charts})
}

func (s *Server) handleChartGet(w http.ResponseWriter, r *http.Request) {
	chart, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleChartUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req chartRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Portfolio != nil {
		existing.Portfolio = *req.Portfolio
	}
	if req.Grouping != "" {
		existing.Grouping = req.Grouping
	}
	if req.Width != 0 {
		existing.Width = req.Width
	}
	if req.Height != 0 {
		existing.Height = req.Height
	}
	if err := existing.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if err := s.Store.Put(r.Context(), existing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleChartDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChartRender renders a stored chart using its saved layout settings.
// The format query parameter selects the output (default svg).
func (s *Server) handleChartRender(w http.ResponseWriter, r *http.Request) {
	chart, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Portfolio: &chart.Portfolio,
		Grouping:  chart.Grouping,
		Width:     chart.Width,
		Height:    chart.Height,
		Formats:   []string{format},
		Title:     chart.Name,
	}
	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}
