// Package pkg provides the core libraries for Mosaic portfolio visualization.
//
// # Overview
//
// Mosaic turns portfolio allocations into squarified treemaps where every
// position gets a tile whose area is proportional to its value. The pkg
// directory is organized into four main areas:
//
//  1. [treemap] - Squarified layout algorithm and hierarchy support
//  2. [portfolio] - Portfolio documents (JSON/TOML) and sector grouping
//  3. [render] - Output sinks (SVG, PNG, JSON) and Graphviz outlines
//  4. [pipeline] - Orchestration with caching (load → layout → render)
//
// Supporting packages: [cache] (file/Redis backends), [store] (chart
// persistence in memory or MongoDB), [formats] (backend payload
// normalization), [config], [errors], and [observability].
//
// # Architecture
//
// The typical data flow through Mosaic:
//
//	Portfolio document (JSON/TOML)
//	         ↓
//	    [portfolio] package (validate + group by sector)
//	         ↓
//	    [treemap] package (squarified layout)
//	         ↓
//	    [render] package (SVG/PNG/JSON/DOT output)
//
// # Quick Start
//
// Run the full pipeline with caching:
//
//	import (
//	    "context"
//	    "github.com/mosaicviz/mosaic/pkg/cache"
//	    "github.com/mosaicviz/mosaic/pkg/pipeline"
//	)
//
//	c, _ := cache.NewFileCache("/tmp/mosaic-cache")
//	runner := pipeline.NewRunner(c, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  "portfolio.json",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    // handle error
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pkg
