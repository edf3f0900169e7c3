// Package pipeline provides the core pathway construction pipeline.
//
// This package implements the complete generate → layout → edges → validate
// pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Generate: Parse content items and build named conversation nodes
//  2. Layout: Compute canvas positions for every node
//  3. Edges: Derive the transitions between positioned nodes
//  4. Validate: Check the assembled pathway and collect findings
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    PathwayName: "Sales Outreach",
//	    Namer:       namer,
//	}
//	result, err := runner.Execute(ctx, items, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, _ := pathway.Marshal(result.Pathway)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathforge/pathforge/pkg/naming"
	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/transform/layout"
)

// DefaultPathwayName is used when no name is supplied.
const DefaultPathwayName = "Generated Pathway"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the construction pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// PathwayName is the display name carried through to hosting.
	PathwayName string `json:"pathway_name,omitempty"`

	// Layout overrides the canvas grid. Zero fields use the defaults.
	Layout layout.Config `json:"layout,omitempty"`

	// Concurrency bounds in-flight naming calls. Zero uses the pool default.
	Concurrency int `json:"concurrency,omitempty"`

	// CallTimeout bounds a single naming call. Zero uses the pool default.
	CallTimeout time.Duration `json:"call_timeout,omitempty"`

	// Refresh bypasses the pathway cache and rebuilds from scratch.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Namer  naming.Namer  `json:"-"`
	NewID  func() string `json:"-"`
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.PathwayName == "" {
		o.PathwayName = DefaultPathwayName
	}
	if err := o.Layout.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// PoolOptions returns the naming pool configuration derived from the options.
func (o *Options) PoolOptions() naming.PoolOptions {
	return naming.PoolOptions{
		Concurrency: o.Concurrency,
		CallTimeout: o.CallTimeout,
		Logger:      o.Logger,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pathway is the assembled conversation graph.
	Pathway *pathway.Pathway

	// Name is the pathway display name.
	Name string

	// ContentHash is the content hash of the input items.
	ContentHash string

	// Findings are the validation findings. Empty means valid.
	Findings []pathway.ValidationError

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the pathway came from cache.
	CacheInfo CacheInfo
}

// Valid reports whether validation produced no findings.
func (r *Result) Valid() bool { return len(r.Findings) == 0 }

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	EdgeTime     time.Duration
	ValidateTime time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	PathwayHit bool // Whether the assembled pathway came from cache
}
