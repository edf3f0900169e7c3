package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathforge/pathforge/pkg/cache"
	"github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/naming"
	"github.com/pathforge/pathforge/pkg/observability"
	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/transform/edges"
	"github.com/pathforge/pathforge/pkg/transform/layout"
	"github.com/pathforge/pathforge/pkg/transform/nodegen"
	"github.com/pathforge/pathforge/pkg/transform/validate"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → layout → edges → validate pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, items []ContentItem, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeNoContent, "no content items to transform")
	}

	contentHash := hashItems(items)
	result := &Result{
		Name:        opts.PathwayName,
		ContentHash: contentHash,
	}

	// Try cache first (unless refresh requested)
	cacheKey := r.Keyer.PathwayKey(contentHash)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if p, err := pathway.Unmarshal(data); err == nil {
				result.Pathway = p
				result.Findings = r.runValidate(ctx, p, result)
				result.Stats.NodeCount = p.NodeCount()
				result.Stats.EdgeCount = p.EdgeCount()
				result.CacheInfo.PathwayHit = true
				r.Logger.Info("pathway from cache",
					"nodes", p.NodeCount(),
					"edges", p.EdgeCount())
				return result, nil
			}
		}
	}

	// Stage 1: Generate
	nodes, err := r.runGenerate(ctx, items, opts, result)
	if err != nil {
		return nil, err
	}

	// Stage 2: Layout
	arranged, err := r.runLayout(ctx, nodes, opts, result)
	if err != nil {
		return nil, err
	}

	// Stage 3: Edges
	edgeList := r.runEdges(ctx, arranged, result)

	// Assemble
	p := pathway.New()
	for _, n := range arranged {
		p.Nodes[n.ID] = n
	}
	for _, e := range edgeList {
		p.Edges[e.ID] = e
	}
	result.Pathway = p
	result.Stats.NodeCount = p.NodeCount()
	result.Stats.EdgeCount = p.EdgeCount()

	// Stage 4: Validate
	result.Findings = r.runValidate(ctx, p, result)

	// Cache the result
	if data, err := pathway.Marshal(p); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultTTL)
	}

	return result, nil
}

// runGenerate parses content items and builds all nodes, including the start
// node and the three fixed terminals.
func (r *Runner) runGenerate(ctx context.Context, items []ContentItem, opts Options, result *Result) ([]*pathway.Node, error) {
	observability.Pipeline().OnStageStart(ctx, observability.StageGenerate, len(items))
	start := time.Now()

	nodes, err := r.generate(ctx, items, opts)

	result.Stats.GenerateTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, observability.StageGenerate, len(nodes), result.Stats.GenerateTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("generated nodes",
		"items", len(items),
		"nodes", len(nodes),
		"duration", result.Stats.GenerateTime)
	return nodes, nil
}

func (r *Runner) generate(ctx context.Context, items []ContentItem, opts Options) ([]*pathway.Node, error) {
	gen, err := nodegen.NewGenerator(nodegen.Options{
		Namer:  opts.Namer,
		NewID:  opts.NewID,
		Logger: opts.Logger,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create node generator")
	}

	var payloads []promptPayload
	for _, item := range items {
		p, ok := parseItem(item)
		if !ok {
			r.Logger.Warn("skipping content item without prompt text", "id", item.ID)
			continue
		}
		payloads = append(payloads, p)
	}
	if len(payloads) == 0 {
		return nil, errors.New(errors.ErrCodeNoNodes, "no usable prompts in content items")
	}

	// The first conversational payload seeds the start node; everything
	// else becomes its own node.
	startIdx := -1
	for i, p := range payloads {
		if p.conversational() {
			startIdx = i
			break
		}
	}
	startPrompt := ""
	if startIdx >= 0 {
		startPrompt = payloads[startIdx].Prompt
	}

	var rest []promptPayload
	for i, p := range payloads {
		if i != startIdx {
			rest = append(rest, p)
		}
	}

	// Name all remaining prompts in one bounded-parallel batch.
	pool, err := naming.NewPool(gen.Namer(), opts.PoolOptions())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create naming pool")
	}
	prompts := make([]string, len(rest))
	for i, p := range rest {
		prompts[i] = p.Prompt
	}
	names, err := pool.NameAll(ctx, prompts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "naming cancelled")
	}

	nodes := []*pathway.Node{gen.StartNode(startPrompt)}
	for i, p := range rest {
		typ := p.nodeType()
		node := gen.NamedNode(names[i], p.Prompt, typ, pathway.Position{}, typ == pathway.NodeGlobal)
		if typ == pathway.NodeTransferCall {
			node.Data.TransferNumber = p.TransferNumber
			if node.Data.TransferNumber == "" {
				node.Data.TransferNumber = nodegen.DefaultTransferNumber
			}
		}
		nodes = append(nodes, node)
	}

	// Every pathway closes with the three fixed terminals.
	for _, kind := range []nodegen.EndKind{nodegen.EndSuccess, nodegen.EndRejection, nodegen.EndTransfer} {
		node, err := gen.EndNode(ctx, kind, pathway.Position{})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create end node")
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// runLayout assigns canvas positions to every node.
func (r *Runner) runLayout(ctx context.Context, nodes []*pathway.Node, opts Options, result *Result) ([]*pathway.Node, error) {
	observability.Pipeline().OnStageStart(ctx, observability.StageLayout, len(nodes))
	start := time.Now()

	engine, err := layout.NewEngine(opts.Layout)
	if err != nil {
		result.Stats.LayoutTime = time.Since(start)
		observability.Pipeline().OnStageComplete(ctx, observability.StageLayout, 0, result.Stats.LayoutTime, err)
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout config")
	}
	arranged := engine.Arrange(nodes)

	result.Stats.LayoutTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, observability.StageLayout, len(arranged), result.Stats.LayoutTime, nil)

	r.Logger.Info("computed layout",
		"nodes", len(arranged),
		"duration", result.Stats.LayoutTime)
	return arranged, nil
}

// runEdges derives every valid transition over the positioned nodes.
func (r *Runner) runEdges(ctx context.Context, nodes []*pathway.Node, result *Result) []*pathway.Edge {
	observability.Pipeline().OnStageStart(ctx, observability.StageEdges, len(nodes))
	start := time.Now()

	edgeList := edges.NewManager().ForNodes(nodes)

	result.Stats.EdgeTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, observability.StageEdges, len(edgeList), result.Stats.EdgeTime, nil)

	r.Logger.Info("derived edges",
		"edges", len(edgeList),
		"duration", result.Stats.EdgeTime)
	return edgeList
}

// runValidate checks the assembled pathway and reports findings.
func (r *Runner) runValidate(ctx context.Context, p *pathway.Pathway, result *Result) []pathway.ValidationError {
	observability.Pipeline().OnStageStart(ctx, observability.StageValidate, p.NodeCount())
	start := time.Now()

	findings := validate.NewValidator().Validate(p)

	result.Stats.ValidateTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, observability.StageValidate, len(findings), result.Stats.ValidateTime, nil)

	perCategory := make(map[pathway.Category]int)
	for _, f := range findings {
		perCategory[f.Category]++
	}
	for category, count := range perCategory {
		observability.Pipeline().OnValidationFindings(ctx, string(category), count)
	}

	if len(findings) > 0 {
		r.Logger.Warn("validation findings",
			"count", len(findings),
			"duration", result.Stats.ValidateTime)
	} else {
		r.Logger.Info("validated pathway",
			"duration", result.Stats.ValidateTime)
	}
	return findings
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// hashItems returns the content hash identifying a build input.
func hashItems(items []ContentItem) string {
	data, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
