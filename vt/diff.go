package vt

import "github.com/rivo/uniseg"

// Snapshot is an immutable copy of the visible grid, safe to hand to
// renderers while the live screen keeps mutating.
type Snapshot struct {
	Cols, Rows int
	Lines      []Line
	Cursor     Cursor
	Title      string
}

// Snapshot deep-copies the visible buffer.
func (s *Screen) Snapshot() *Snapshot {
	snap := &Snapshot{
		Cols:   s.cols,
		Rows:   s.rows,
		Lines:  make([]Line, s.rows),
		Cursor: s.cursor,
		Title:  s.title,
	}
	for i := range s.lines {
		snap.Lines[i] = s.lines[i].clone()
	}
	return snap
}

func (snap *Snapshot) clone() *Snapshot {
	c := &Snapshot{Cols: snap.Cols, Rows: snap.Rows, Cursor: snap.Cursor, Title: snap.Title}
	c.Lines = make([]Line, len(snap.Lines))
	for i := range snap.Lines {
		c.Lines[i] = snap.Lines[i].clone()
	}
	return c
}

// OpKind tags a render operation.
type OpKind uint8

const (
	// OpMoveCursor positions the output cursor at (Row, Col).
	OpMoveCursor OpKind = iota
	// OpWriteRun writes Text in one Style at the current position.
	OpWriteRun
	// OpRepaint tells the consumer to discard everything and start from a
	// blank Col x Row grid; the ops that follow rebuild the full screen.
	OpRepaint
)

// Op is one ordered update operation. For OpRepaint, Row/Col carry the new
// grid dimensions so a consumer can apply the diff without out-of-band
// geometry knowledge.
type Op struct {
	Kind  OpKind
	Row   int
	Col   int
	Text  string
	Style Style
	// Cells holds the run's owner cells in order. The differ always fills
	// it; re-segmenting Text cannot recover cell boundaries when adjacent
	// cells join into one grapheme cluster (variation selectors, ZWJ).
	Cells []Cell
}

// DiffConfig holds the differ's two documented policy knobs.
type DiffConfig struct {
	// RepaintFraction: when more than this fraction of rows changed, emit
	// one full repaint instead of per-row spans.
	RepaintFraction float64 `yaml:"repaint_fraction"`
	// MergeGap: spans separated by at most this many unchanged cells are
	// merged, trading a few rewritten cells for fewer cursor moves.
	MergeGap int `yaml:"merge_gap"`
}

// DiffSnapshots computes the minimal ordered update set turning old into
// new. Applying the result to old (see Apply) reproduces new exactly,
// whether the per-row or the full-repaint path was taken.
func DiffSnapshots(old, next *Snapshot, cfg DiffConfig) []Op {
	if cfg.RepaintFraction <= 0 {
		cfg.RepaintFraction = defaultRepaintFraction
	}
	if old == nil || old.Cols != next.Cols || old.Rows != next.Rows {
		return repaintOps(next)
	}

	type rowSpans struct {
		row   int
		spans []Span
	}
	var changed []rowSpans
	for y := 0; y < next.Rows; y++ {
		if old.Lines[y].Equal(next.Lines[y]) {
			continue
		}
		spans := rowDiffSpans(old.Lines[y], next.Lines[y], y, cfg.MergeGap)
		if len(spans) > 0 {
			changed = append(changed, rowSpans{row: y, spans: spans})
		}
	}
	if len(changed) == 0 {
		return nil
	}
	if float64(len(changed)) > cfg.RepaintFraction*float64(next.Rows) {
		return repaintOps(next)
	}

	var ops []Op
	for _, rs := range changed {
		for _, sp := range rs.spans {
			ops = append(ops, Op{Kind: OpMoveCursor, Row: sp.Row, Col: sp.ColStart})
			ops = append(ops, runsForCells(next.Lines[sp.Row].Cells[sp.ColStart:sp.ColEnd])...)
		}
	}
	return ops
}

// rowDiffSpans finds the changed column ranges of one row, merging spans
// separated by gaps of at most mergeGap unchanged cells. Spans are widened
// to whole wide-cluster boundaries so no half cluster is ever rewritten.
func rowDiffSpans(oldLine, newLine Line, row, mergeGap int) []Span {
	cols := len(newLine.Cells)
	var spans []Span
	x := 0
	for x < cols {
		if oldLine.Cells[x].Equal(newLine.Cells[x]) {
			x++
			continue
		}
		start := x
		end := x + 1
		gap := 0
		for scan := x + 1; scan < cols; scan++ {
			if oldLine.Cells[scan].Equal(newLine.Cells[scan]) {
				gap++
				if gap > mergeGap {
					break
				}
			} else {
				end = scan + 1
				gap = 0
			}
		}
		// Snap to cluster boundaries.
		if newLine.Cells[start].IsPlaceholder() && start > 0 {
			start--
		}
		if end < cols && newLine.Cells[end].IsPlaceholder() {
			end++
		}
		spans = append(spans, Span{Row: row, ColStart: start, ColEnd: end})
		x = end
	}
	return spans
}

// runsForCells converts a cell range into WriteRun ops, one per contiguous
// style. Placeholder cells contribute nothing; their owners carry the width.
func runsForCells(cells []Cell) []Op {
	var ops []Op
	var run []Cell
	var text []byte
	var cur Style
	open := false
	flush := func() {
		if open && len(run) > 0 {
			ops = append(ops, Op{Kind: OpWriteRun, Text: string(text), Style: cur, Cells: run})
		}
		run = nil
		text = nil
	}
	for _, c := range cells {
		if c.IsPlaceholder() {
			continue
		}
		if !open || c.Style != cur {
			flush()
			cur = c.Style
			open = true
		}
		if c.Grapheme == "" {
			c.Grapheme = " "
		}
		run = append(run, c)
		text = append(text, c.Grapheme...)
	}
	flush()
	return ops
}

// repaintOps rebuilds the whole screen: one OpRepaint carrying the target
// geometry, then full-width runs for every row.
func repaintOps(snap *Snapshot) []Op {
	ops := []Op{{Kind: OpRepaint, Row: snap.Rows, Col: snap.Cols}}
	for y := 0; y < snap.Rows; y++ {
		ops = append(ops, Op{Kind: OpMoveCursor, Row: y, Col: 0})
		ops = append(ops, runsForCells(snap.Lines[y].Cells)...)
	}
	return ops
}

// Apply replays a diff onto a copy of base and returns the result. It is
// the reference consumer: the CLI renderer and the round-trip tests both
// rely on it.
func Apply(base *Snapshot, ops []Op) *Snapshot {
	out := base.clone()
	row, col := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case OpRepaint:
			out = &Snapshot{Cols: op.Col, Rows: op.Row, Cursor: out.Cursor, Title: out.Title}
			out.Lines = make([]Line, op.Row)
			for i := range out.Lines {
				out.Lines[i] = newLine(op.Col, Style{})
			}
			row, col = 0, 0
		case OpMoveCursor:
			row, col = op.Row, op.Col
		case OpWriteRun:
			col = out.writeRun(row, col, op)
		}
	}
	return out
}

// writeRun writes one styled run at (row, col), honoring wide-cluster
// placeholders. Differ-produced ops carry their cells and are written back
// verbatim; text-only ops built by hand are segmented into clusters first.
func (snap *Snapshot) writeRun(row, col int, op Op) int {
	if row < 0 || row >= snap.Rows {
		return col
	}
	cells := op.Cells
	if cells == nil {
		cells = clusterCells(op.Text, op.Style)
	}
	for _, c := range cells {
		w := int(c.Width)
		if col+w > snap.Cols {
			break
		}
		snap.Lines[row].Cells[col] = c
		if w == 2 {
			snap.Lines[row].Cells[col+1] = placeholderCell(c.Style)
		}
		col += w
	}
	return col
}

// clusterCells segments run text into cells, one grapheme cluster each,
// merging zero-width clusters into the preceding cell like the parser does.
func clusterCells(text string, st Style) []Cell {
	var cells []Cell
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := graphemeWidth(cluster)
		if w == 0 {
			if n := len(cells); n > 0 {
				cells[n-1].Grapheme += cluster
			}
			continue
		}
		cells = append(cells, Cell{Grapheme: cluster, Width: uint8(w), Style: st})
	}
	return cells
}
