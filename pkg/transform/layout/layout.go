// Package layout assigns deterministic 2-D canvas positions to pathway
// nodes. Nodes are placed top-to-bottom in four bands (start, main, global,
// terminal) on a fixed grid, with per-type offsets and collision resolution
// so no two nodes ever overlap.
package layout

import (
	"github.com/pathforge/pathforge/pkg/pathway"
)

// Grid defaults matching the hosting system's canvas.
const (
	DefaultHorizontalSpacing = 400
	DefaultVerticalSpacing   = 200
	DefaultStartX            = 400
	DefaultStartY            = 100
	DefaultMaxPerRow         = 3
)

// Config describes the layout grid.
type Config struct {
	NodeWidth         int
	NodeHeight        int
	HorizontalSpacing int
	VerticalSpacing   int
	StartX            int
	StartY            int
	MaxPerRow         int
}

// DefaultConfig returns the standard grid.
func DefaultConfig() Config {
	return Config{
		NodeWidth:         pathway.DefaultNodeWidth,
		NodeHeight:        pathway.DefaultNodeHeight,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		StartX:            DefaultStartX,
		StartY:            DefaultStartY,
		MaxPerRow:         DefaultMaxPerRow,
	}
}

// ValidateAndSetDefaults applies defaults for unset fields.
func (c *Config) ValidateAndSetDefaults() error {
	def := DefaultConfig()
	if c.NodeWidth <= 0 {
		c.NodeWidth = def.NodeWidth
	}
	if c.NodeHeight <= 0 {
		c.NodeHeight = def.NodeHeight
	}
	if c.HorizontalSpacing <= 0 {
		c.HorizontalSpacing = def.HorizontalSpacing
	}
	if c.VerticalSpacing <= 0 {
		c.VerticalSpacing = def.VerticalSpacing
	}
	if c.StartX <= 0 {
		c.StartX = def.StartX
	}
	if c.StartY <= 0 {
		c.StartY = def.StartY
	}
	if c.MaxPerRow <= 0 {
		c.MaxPerRow = def.MaxPerRow
	}
	return nil
}

// Engine positions nodes on the grid. An Engine carries per-run occupancy
// state; create one per Arrange call or reuse sequentially, not
// concurrently.
type Engine struct {
	cfg         Config
	levelCounts map[int]int
	occupied    []pathway.Position
}

// NewEngine creates a layout engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Arrange assigns a position to every node and returns the nodes in layout
// order: start, main (Conversation/KnowledgeBase), global, terminal.
// Output is deterministic for a given input ordering, and no two returned
// positions overlap.
func (e *Engine) Arrange(nodes []*pathway.Node) []*pathway.Node {
	e.levelCounts = make(map[int]int)
	e.occupied = e.occupied[:0]

	sorted := sortByBand(nodes)

	level := 0
	for _, node := range sorted {
		node.Position = e.place(node, level)
		if e.levelCounts[level] >= e.cfg.MaxPerRow {
			level++
		}
	}
	return sorted
}

// place computes the grid cell for a node at the given level, applies the
// type-specific offsets, and resolves any remaining collision.
func (e *Engine) place(node *pathway.Node, level int) pathway.Position {
	column := e.levelCounts[level] % e.cfg.MaxPerRow
	x := e.cfg.StartX + column*(e.cfg.NodeWidth+e.cfg.HorizontalSpacing)
	y := e.cfg.StartY + level*(e.cfg.NodeHeight+e.cfg.VerticalSpacing)

	pos := e.adjustForType(node, x, y)
	if e.overlaps(pos) {
		pos = e.Resolve(pos)
	}

	e.levelCounts[level]++
	e.occupied = append(e.occupied, pos)
	return pos
}

// adjustForType applies the per-type position overrides: the start node is
// pinned to the grid origin, global handlers sit on a fixed left margin one
// row below their slot, and terminals shift right to stand apart from the
// main flow.
func (e *Engine) adjustForType(node *pathway.Node, x, y int) pathway.Position {
	switch {
	case node.Data.IsStart:
		return pathway.Position{X: e.cfg.StartX, Y: e.cfg.StartY}
	case node.Data.IsGlobal:
		return pathway.Position{X: e.cfg.StartX / 2, Y: y + e.cfg.VerticalSpacing}
	case node.Type.IsTerminal():
		return pathway.Position{X: x + e.cfg.HorizontalSpacing, Y: y}
	}
	return pathway.Position{X: x, Y: y}
}

// overlaps reports whether pos collides with an already placed node.
func (e *Engine) overlaps(pos pathway.Position) bool {
	for _, p := range e.occupied {
		if abs(pos.X-p.X) < e.cfg.NodeWidth && abs(pos.Y-p.Y) < e.cfg.NodeHeight {
			return true
		}
	}
	return false
}

// Resolve finds a free cell for pos against the current occupancy: first
// try one step right, then reset x and step down, then scan rightward in
// spacing increments wrapping to the next row. Used both as the Arrange
// safety net and for repositioning a node during incremental edits.
func (e *Engine) Resolve(pos pathway.Position) pathway.Position {
	origX := pos.X

	pos.X += e.cfg.HorizontalSpacing
	if !e.overlaps(pos) {
		return pos
	}

	pos.X = origX
	pos.Y += e.cfg.VerticalSpacing
	if !e.overlaps(pos) {
		return pos
	}

	for e.overlaps(pos) {
		pos.X += e.cfg.HorizontalSpacing
		if pos.X > origX+e.cfg.HorizontalSpacing*3 {
			pos.X = origX
			pos.Y += e.cfg.VerticalSpacing
		}
	}
	return pos
}

// sortByBand orders nodes start, main, global, terminal, keeping the input
// order within each band.
func sortByBand(nodes []*pathway.Node) []*pathway.Node {
	var start, main, global, terminal []*pathway.Node
	for _, n := range nodes {
		switch {
		case n.Data.IsStart:
			start = append(start, n)
		case n.Data.IsGlobal:
			global = append(global, n)
		case n.Type.IsTerminal():
			terminal = append(terminal, n)
		default:
			main = append(main, n)
		}
	}

	out := make([]*pathway.Node, 0, len(nodes))
	out = append(out, start...)
	out = append(out, main...)
	out = append(out, global...)
	out = append(out, terminal...)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
